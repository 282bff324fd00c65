package store

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/atikulmunna/logdash/internal/model"
)

// Stats summarizes the loaded data for the dashboard cards.
type Stats struct {
	TotalFiles   int `json:"total_files"`
	TotalEntries int `json:"total_entries"`
	Critical     int `json:"critical"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Categories   int `json:"categories"`
}

// Store holds the log files and entries of the last completed load.
// Every load replaces the previous contents wholesale.
type Store struct {
	mu        sync.RWMutex
	files     []model.LogFile
	entries   []model.LogEntry
	index     map[int64]int // entry id -> position in entries
	issued    uint64
	committed uint64
}

func New() *Store {
	return &Store{index: make(map[int64]int)}
}

// Begin reserves a sequence number for a load about to start.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit installs the result of load seq. It returns false, leaving the
// store untouched, when a later load has already been committed.
func (s *Store) Commit(seq uint64, files []model.LogFile, entries []model.LogEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.committed {
		slog.Debug("discarding stale load", "seq", seq, "committed", s.committed)
		return false
	}
	s.committed = seq
	s.files = append([]model.LogFile(nil), files...)
	s.entries = make([]model.LogEntry, 0, len(entries))
	s.index = make(map[int64]int, len(entries))

	for _, e := range entries {
		if _, dup := s.index[e.ID]; dup {
			slog.Warn("dropping entry with duplicate id", "id", e.ID)
			continue
		}
		e.Level = model.NormalizeLevel(string(e.Level))
		s.index[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return true
}

// Replace swaps in entries unconditionally, keeping the current files.
func (s *Store) Replace(entries []model.LogEntry) {
	seq := s.Begin()
	s.Commit(seq, s.Files(), entries)
}

// Entries returns a copy of all entries in load order.
func (s *Store) Entries() []model.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.LogEntry(nil), s.entries...)
}

// Files returns a copy of the loaded log files.
func (s *Store) Files() []model.LogFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.LogFile(nil), s.files...)
}

// Len returns the number of loaded entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the entry with the given id.
func (s *Store) Get(id int64) (model.LogEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.LogEntry{}, false
	}
	return s.entries[i], true
}

// Lookup returns, in load order, every entry whose id satisfies keep.
func (s *Store) Lookup(keep func(id int64) bool) []model.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.LogEntry
	for _, e := range s.entries {
		if keep(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Sources returns the sorted distinct non-empty sources.
func (s *Store) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range s.entries {
		if e.Source != "" {
			seen[e.Source] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for src := range seen {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// Stats computes the dashboard counters over the current contents.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{TotalFiles: len(s.files), TotalEntries: len(s.entries)}
	sources := make(map[string]struct{})
	for _, e := range s.entries {
		switch e.Level {
		case model.LevelCritical:
			st.Critical++
		case model.LevelError:
			st.Errors++
		case model.LevelWarn, model.LevelWarning:
			st.Warnings++
		}
		if e.Source != "" {
			sources[e.Source] = struct{}{}
		}
	}
	st.Categories = len(sources)
	return st
}
