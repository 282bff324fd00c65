package hub

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/atikulmunna/logdash/internal/metrics"
	"github.com/atikulmunna/logdash/internal/model"
	"github.com/atikulmunna/logdash/internal/parser"
)

const subscriberBuffer = 1024

// Hub receives raw lines from the tailer, parses them and fans the resulting
// entries out to every subscriber.
type Hub struct {
	parser      parser.Parser
	input       <-chan model.RawLine
	mu          sync.RWMutex
	subscribers map[chan model.LiveEntry]struct{}
	dropped     atomic.Int64
	skipped     atomic.Int64
}

func New(input <-chan model.RawLine, p parser.Parser) *Hub {
	return &Hub{
		parser:      p,
		input:       input,
		subscribers: make(map[chan model.LiveEntry]struct{}),
	}
}

// Subscribe returns a buffered channel that receives a copy of every entry.
// The channel is closed when the hub stops or on Unsubscribe.
func (h *Hub) Subscribe() <-chan model.LiveEntry {
	ch := make(chan model.LiveEntry, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe detaches and closes a channel returned by Subscribe.
func (h *Hub) Unsubscribe(sub <-chan model.LiveEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		if ch == sub {
			delete(h.subscribers, ch)
			close(ch)
			return
		}
	}
}

// Dropped returns the number of entries dropped for slow subscribers.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// Skipped returns the number of lines that failed to parse.
func (h *Hub) Skipped() int64 { return h.skipped.Load() }

// Start reads, parses and broadcasts until ctx is done or the input closes.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-h.input:
			if !ok {
				return
			}
			entry, err := h.parser.Parse(raw.Text, 0)
			if err != nil {
				if !errors.Is(err, parser.ErrParse) {
					slog.Warn("hub: unexpected parser error", "path", raw.Path, "error", err)
				}
				h.skipped.Add(1)
				metrics.LinesSkipped.Inc()
				continue
			}
			metrics.LiveEntries.WithLabelValues(string(entry.Level)).Inc()
			h.broadcast(model.LiveEntry{LogEntry: entry, Path: raw.Path})
		}
	}
}

// broadcast never blocks; a full subscriber misses the entry.
func (h *Hub) broadcast(entry model.LiveEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- entry:
		default:
			n := h.dropped.Add(1)
			metrics.LiveDropped.Inc()
			slog.Debug("hub: dropped entry for slow consumer", "total_dropped", n)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		close(ch)
	}
	clear(h.subscribers)
}
