package paginate

import "github.com/atikulmunna/logdash/internal/model"

// DefaultPageSize matches the dashboard's table height.
const DefaultPageSize = 20

// Window is one page of a sorted, filtered sequence.
// Start is 0-based and End exclusive.
type Window struct {
	Entries  []model.LogEntry `json:"entries"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Start    int              `json:"start"`
	End      int              `json:"end"`
	Total    int              `json:"total"`
	HasPrev  bool             `json:"has_prev"`
	HasNext  bool             `json:"has_next"`
}

// Paginate slices page (1-based) out of entries. It does not clamp page;
// a page past the end yields an empty window.
func Paginate(entries []model.LogEntry, page, pageSize int) Window {
	total := len(entries)
	start := (page - 1) * pageSize
	if total == 0 {
		start = 0
	}
	end := min(start+pageSize, total)

	lo, hi := max(start, 0), max(end, 0)
	if lo > hi {
		lo = hi
	}

	return Window{
		Entries:  entries[lo:hi],
		Page:     page,
		PageSize: pageSize,
		Start:    start,
		End:      end,
		Total:    total,
		HasPrev:  page > 1,
		HasNext:  end < total,
	}
}

// Cursor tracks the current page for a view.
type Cursor struct {
	Page int
	Size int
}

func NewCursor(size int) *Cursor {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Cursor{Page: 1, Size: size}
}

// Reset returns to the first page; called whenever filter or sort changes.
func (c *Cursor) Reset() { c.Page = 1 }

// Next advances one page unless the current page already reaches total.
func (c *Cursor) Next(total int) bool {
	if c.Page*c.Size >= total {
		return false
	}
	c.Page++
	return true
}

// Prev steps back one page unless already on the first.
func (c *Cursor) Prev() bool {
	if c.Page <= 1 {
		return false
	}
	c.Page--
	return true
}
