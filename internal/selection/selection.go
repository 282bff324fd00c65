package selection

import (
	"slices"
	"sync"
)

// Tracker is the set of entry ids the operator has marked. It is keyed by
// identity, so it survives filter, sort and page changes.
type Tracker struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func New() *Tracker {
	return &Tracker{ids: make(map[int64]struct{})}
}

// Toggle flips membership of id and reports whether it is now selected.
func (t *Tracker) Toggle(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ids[id]; ok {
		delete(t.ids, id)
		return false
	}
	t.ids[id] = struct{}{}
	return true
}

// SelectAll adds every id.
func (t *Tracker) SelectAll(ids []int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		t.ids[id] = struct{}{}
	}
}

// Remove drops the given ids, leaving the rest selected.
func (t *Tracker) Remove(ids []int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		delete(t.ids, id)
	}
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.ids)
}

func (t *Tracker) Contains(id int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}

func (t *Tracker) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}

// IDs returns the selected ids in ascending order.
func (t *Tracker) IDs() []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]int64, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
