package watcher

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Event is a change to a watched log file.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher reports writes, creations, removals and renames of the files its
// glob patterns matched at startup.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	paths  []string
}

// New expands patterns (recursive ** allowed) and watches every match.
// Patterns that fail to expand are logged and skipped.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 256),
	}

	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			slog.Warn("cannot expand pattern", "pattern", pattern, "error", err)
			continue
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil || seen[abs] {
				continue
			}
			if err := fsw.Add(abs); err != nil {
				slog.Warn("cannot watch file", "path", abs, "error", err)
				continue
			}
			seen[abs] = true
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Start forwards file events until ctx is cancelled, then closes Events.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&relevant == 0 {
				continue
			}
			select {
			case w.Events <- Event{Path: ev.Name, Op: ev.Op}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// Paths returns the watched files.
func (w *Watcher) Paths() []string {
	return w.paths
}

// ReWatch adds a path back after rotation.
func (w *Watcher) ReWatch(path string) error {
	return w.fsw.Add(path)
}
