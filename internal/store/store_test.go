package store

import (
	"testing"

	"github.com/atikulmunna/logdash/internal/model"
)

func sampleEntries() []model.LogEntry {
	return []model.LogEntry{
		{ID: 1, Level: "ERROR", Message: "disk full", Source: "disk"},
		{ID: 2, Level: "warn", Message: "slow", Source: "api"},
		{ID: 3, Level: "", Message: "no level", Source: "api"},
		{ID: 4, Level: "CRITICAL", Message: "down", Source: ""},
	}
}

func TestCommitReplacesWholesale(t *testing.T) {
	s := New()
	s.Replace(sampleEntries())
	s.Replace([]model.LogEntry{{ID: 9, Level: "INFO", Message: "fresh"}})

	if s.Len() != 1 {
		t.Fatalf("expected 1 entry after reload, got %d", s.Len())
	}
	if _, ok := s.Get(1); ok {
		t.Error("expected old entries to be gone")
	}
}

func TestCommitNormalizesLevels(t *testing.T) {
	s := New()
	s.Replace(sampleEntries())

	e, _ := s.Get(2)
	if e.Level != model.LevelWarn {
		t.Errorf("expected WARN, got %s", e.Level)
	}
	e, _ = s.Get(3)
	if e.Level != model.LevelUnknown {
		t.Errorf("expected UNKNOWN for empty level, got %s", e.Level)
	}
}

func TestCommitDropsDuplicateIDs(t *testing.T) {
	s := New()
	s.Replace([]model.LogEntry{
		{ID: 1, Level: "INFO", Message: "first"},
		{ID: 1, Level: "INFO", Message: "second"},
	})

	if s.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Len())
	}
	e, _ := s.Get(1)
	if e.Message != "first" {
		t.Errorf("expected first occurrence kept, got %q", e.Message)
	}
}

func TestStaleCommitDiscarded(t *testing.T) {
	s := New()
	slow := s.Begin()
	fast := s.Begin()

	if !s.Commit(fast, nil, []model.LogEntry{{ID: 2, Level: "INFO", Message: "new"}}) {
		t.Fatal("expected newest load to commit")
	}
	if s.Commit(slow, nil, []model.LogEntry{{ID: 1, Level: "INFO", Message: "old"}}) {
		t.Fatal("expected stale load to be discarded")
	}
	if _, ok := s.Get(2); !ok {
		t.Error("expected newest contents to survive")
	}
}

func TestLookupKeepsLoadOrder(t *testing.T) {
	s := New()
	s.Replace(sampleEntries())

	want := map[int64]bool{4: true, 1: true}
	got := s.Lookup(func(id int64) bool { return want[id] })

	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 4 {
		t.Errorf("expected ids [1 4], got %+v", got)
	}
}

func TestSourcesAndStats(t *testing.T) {
	s := New()
	seq := s.Begin()
	s.Commit(seq, []model.LogFile{{ID: 1}, {ID: 2}}, sampleEntries())

	srcs := s.Sources()
	if len(srcs) != 2 || srcs[0] != "api" || srcs[1] != "disk" {
		t.Errorf("expected [api disk], got %v", srcs)
	}

	st := s.Stats()
	if st.TotalFiles != 2 || st.TotalEntries != 4 {
		t.Errorf("unexpected totals: %+v", st)
	}
	if st.Critical != 1 || st.Errors != 1 || st.Warnings != 1 {
		t.Errorf("unexpected level counts: %+v", st)
	}
	if st.Categories != 2 {
		t.Errorf("expected 2 categories, got %d", st.Categories)
	}
}
