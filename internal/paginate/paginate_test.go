package paginate

import (
	"testing"

	"github.com/atikulmunna/logdash/internal/model"
)

func makeEntries(n int) []model.LogEntry {
	out := make([]model.LogEntry, n)
	for i := range out {
		out[i] = model.LogEntry{ID: int64(i)}
	}
	return out
}

func TestPaginateWindows(t *testing.T) {
	entries := makeEntries(45)

	w := Paginate(entries, 1, 20)
	if w.Start != 0 || w.End != 20 || len(w.Entries) != 20 || w.Entries[0].ID != 0 || w.Entries[19].ID != 19 {
		t.Errorf("page 1: unexpected window %+v", w)
	}
	if w.HasPrev || !w.HasNext {
		t.Errorf("page 1: expected next only, got prev=%v next=%v", w.HasPrev, w.HasNext)
	}

	w = Paginate(entries, 3, 20)
	if w.Start != 40 || w.End != 45 || len(w.Entries) != 5 || w.Entries[0].ID != 40 {
		t.Errorf("page 3: unexpected window start=%d end=%d len=%d", w.Start, w.End, len(w.Entries))
	}
	if w.HasNext {
		t.Error("page 3: expected next disabled at end=45")
	}
	if !w.HasPrev {
		t.Error("page 3: expected prev enabled")
	}
	if w.Total != 45 {
		t.Errorf("expected total 45, got %d", w.Total)
	}
}

func TestPaginateEmpty(t *testing.T) {
	w := Paginate(nil, 1, 20)
	if w.Start != 0 || w.End != 0 || w.Total != 0 || len(w.Entries) != 0 {
		t.Errorf("unexpected empty window %+v", w)
	}
	if w.HasNext || w.HasPrev {
		t.Error("expected navigation disabled for empty set")
	}
}

func TestPaginatePastEnd(t *testing.T) {
	w := Paginate(makeEntries(5), 4, 20)
	if len(w.Entries) != 0 {
		t.Errorf("expected empty window past the end, got %d entries", len(w.Entries))
	}
	if w.Start != 60 {
		t.Errorf("expected unclamped start 60, got %d", w.Start)
	}
}

func TestCursor(t *testing.T) {
	c := NewCursor(20)

	if c.Prev() {
		t.Error("expected prev to be a no-op on page 1")
	}
	if !c.Next(45) || !c.Next(45) {
		t.Fatal("expected to reach page 3")
	}
	if c.Next(45) {
		t.Error("expected next to be a no-op on the last page")
	}
	if c.Page != 3 {
		t.Errorf("expected page 3, got %d", c.Page)
	}
	c.Reset()
	if c.Page != 1 {
		t.Errorf("expected reset to page 1, got %d", c.Page)
	}
	if NewCursor(0).Size != DefaultPageSize {
		t.Error("expected default page size")
	}
}
