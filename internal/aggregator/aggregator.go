package aggregator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
)

const epsWindow = 5 * time.Second

// Stats is a point-in-time snapshot of the live tail.
type Stats struct {
	Uptime       string                `json:"uptime"`
	TotalEvents  int64                 `json:"total_events"`
	EPS          float64               `json:"eps"`
	LevelCounts  map[model.Level]int64 `json:"level_counts"`
	Sources      []string              `json:"sources"`
	DroppedLogs  int64                 `json:"dropped_logs"`
	SkippedLines int64                 `json:"skipped_lines"`
	FilesWatched int                   `json:"files_watched"`
}

// Counters supplies live values owned by other components.
type Counters struct {
	Dropped      func() int64
	Skipped      func() int64
	FilesWatched func() int
}

// Aggregator consumes a hub subscription and keeps rolling counters.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	totalEvents int64
	levelCounts map[model.Level]int64
	sources     map[string]struct{}
	window      []time.Time
	counters    Counters
	entries     <-chan model.LiveEntry
	now         func() time.Time
}

func New(entries <-chan model.LiveEntry, c Counters) *Aggregator {
	if c.Dropped == nil {
		c.Dropped = func() int64 { return 0 }
	}
	if c.Skipped == nil {
		c.Skipped = func() int64 { return 0 }
	}
	if c.FilesWatched == nil {
		c.FilesWatched = func() int { return 0 }
	}
	return &Aggregator{
		startTime:   time.Now(),
		levelCounts: make(map[model.Level]int64),
		sources:     make(map[string]struct{}),
		counters:    c,
		entries:     entries,
		now:         time.Now,
	}
}

func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[model.Level]int64, len(a.levelCounts))
	for k, v := range a.levelCounts {
		counts[k] = v
	}
	sources := make([]string, 0, len(a.sources))
	for s := range a.sources {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	cutoff := a.now().Add(-epsWindow)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:       time.Since(a.startTime).Truncate(time.Second).String(),
		TotalEvents:  a.totalEvents,
		EPS:          float64(recent) / epsWindow.Seconds(),
		LevelCounts:  counts,
		Sources:      sources,
		DroppedLogs:  a.counters.Dropped(),
		SkippedLines: a.counters.Skipped(),
		FilesWatched: a.counters.FilesWatched(),
	}
}

// Start consumes entries until ctx is done or the subscription closes.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-a.entries:
			if !ok {
				return
			}
			a.record(entry)
		case <-ticker.C:
			a.prune()
		}
	}
}

func (a *Aggregator) record(entry model.LiveEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalEvents++
	a.levelCounts[entry.Level]++
	a.sources[entry.Source] = struct{}{}
	a.window = append(a.window, a.now())
}

func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := a.now().Add(-epsWindow)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
