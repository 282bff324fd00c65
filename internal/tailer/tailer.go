package tailer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
	"github.com/atikulmunna/logdash/internal/watcher"
	"github.com/fsnotify/fsnotify"
)

const (
	reconnectAttempts = 5
	reconnectDelay    = time.Second
	saveInterval      = 5 * time.Second
)

// Options tunes a Tailer.
type Options struct {
	// FromStart reads files without a checkpoint from the beginning
	// instead of from their current end.
	FromStart bool
}

// Tailer emits complete lines appended to watched files.
type Tailer struct {
	mu    sync.Mutex
	files map[string]*trackedFile
	out   chan model.RawLine
	ckpt  *Checkpoint
	watch *watcher.Watcher
	opts  Options
}

type trackedFile struct {
	file    *os.File
	reader  *bufio.Reader
	offset  int64  // bytes consumed into complete lines
	partial string // trailing text not yet ended by a newline
}

func New(w *watcher.Watcher, ckpt *Checkpoint, opts Options) *Tailer {
	return &Tailer{
		files: make(map[string]*trackedFile),
		out:   make(chan model.RawLine, 512),
		ckpt:  ckpt,
		watch: w,
		opts:  opts,
	}
}

// Lines returns the channel of raw lines. It is closed when Start returns.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start processes watcher events until ctx is cancelled.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)

	for _, p := range t.watch.Paths() {
		t.openFile(p)
		if t.opts.FromStart {
			t.readNewLines(ctx, p)
		}
	}

	saveTicker := time.NewTicker(saveInterval)
	defer saveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.saveCheckpoint()
			t.closeAll()
			return

		case ev, ok := <-t.watch.Events:
			if !ok {
				t.saveCheckpoint()
				t.closeAll()
				return
			}
			t.handleEvent(ctx, ev)

		case <-saveTicker.C:
			t.saveCheckpoint()
		}
	}
}

func (t *Tailer) handleEvent(ctx context.Context, ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Write != 0:
		t.readNewLines(ctx, ev.Path)

	case ev.Op&fsnotify.Create != 0:
		t.openFile(ev.Path)
		t.readNewLines(ctx, ev.Path)

	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		// Rotated away: the replacement starts from offset zero.
		t.closeFile(ev.Path)
		t.ckpt.Set(ev.Path, 0)
		go t.reconnect(ctx, ev.Path)
	}
}

// openFile starts tracking path at its checkpoint, or at its end (or start,
// with FromStart) when none exists.
func (t *Tailer) openFile(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.files[path]; exists {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		slog.Warn("cannot open log file", "path", path, "error", err)
		return
	}

	var offset int64
	if saved, ok := t.ckpt.Get(path); ok {
		offset = saved
	} else if !t.opts.FromStart {
		offset, _ = f.Seek(0, io.SeekEnd)
	}
	if info, err := f.Stat(); err == nil && info.Size() < offset {
		offset = 0 // truncated since the checkpoint
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		slog.Warn("cannot seek log file", "path", path, "error", err)
		f.Close()
		return
	}

	t.files[path] = &trackedFile{file: f, reader: bufio.NewReader(f), offset: offset}
}

// readNewLines emits every complete line appended since the last read and
// keeps an unterminated tail for the next write.
func (t *Tailer) readNewLines(ctx context.Context, path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	t.mu.Unlock()
	if !ok {
		return
	}

	for {
		chunk, err := tf.reader.ReadString('\n')
		if err != nil {
			tf.partial += chunk
			if !errors.Is(err, io.EOF) {
				slog.Warn("read error", "path", path, "error", err)
			}
			break
		}

		line := tf.partial + chunk
		tf.partial = ""
		tf.offset += int64(len(line))

		select {
		case t.out <- model.RawLine{Text: strings.TrimRight(line, "\r\n"), Path: path}:
		case <-ctx.Done():
			return
		}
	}

	t.ckpt.Set(path, tf.offset)
}

func (t *Tailer) closeFile(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tf, ok := t.files[path]; ok {
		tf.file.Close()
		delete(t.files, path)
	}
}

// reconnect polls for a rotated file to reappear.
func (t *Tailer) reconnect(ctx context.Context, path string) {
	for i := 0; i < reconnectAttempts; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
		if _, err := os.Stat(path); err == nil {
			slog.Info("reconnected to rotated file", "path", path)
			_ = t.watch.ReWatch(path)
			t.openFile(path)
			return
		}
	}
	slog.Warn("gave up reconnecting to rotated file", "path", path, "attempts", reconnectAttempts)
}

func (t *Tailer) saveCheckpoint() {
	if err := t.ckpt.Save(); err != nil {
		slog.Warn("checkpoint save failed", "error", err)
	}
}

func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tf := range t.files {
		tf.file.Close()
		delete(t.files, path)
	}
}
