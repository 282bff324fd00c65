package dashboard

import (
	"github.com/atikulmunna/logdash/internal/export"
	"github.com/atikulmunna/logdash/internal/filter"
	"github.com/atikulmunna/logdash/internal/model"
	"github.com/atikulmunna/logdash/internal/paginate"
	"github.com/atikulmunna/logdash/internal/sorting"
)

// View is what the entries table shows.
type View struct {
	paginate.Window
	Criteria filter.Criteria `json:"criteria"`
	Summary  string          `json:"summary"`
	Sort     sorting.State   `json:"sort"`
	Selected int             `json:"selected"`
}

// SetCriteria replaces the filter. A changed filter returns to the first page.
func (d *Dashboard) SetCriteria(c filter.Criteria) error {
	if err := c.Validate(); err != nil {
		return invalid("%v", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.criteria != c {
		d.criteria = c
		d.cursor.Reset()
	}
	return nil
}

// ClearFilters drops every predicate.
func (d *Dashboard) ClearFilters() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.criteria = filter.Criteria{}
	d.cursor.Reset()
}

func (d *Dashboard) Criteria() filter.Criteria {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.criteria
}

// SortBy toggles the sort on field and returns to the first page.
func (d *Dashboard) SortBy(field sorting.Field) sorting.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sort = d.sort.Toggle(field)
	d.cursor.Reset()
	return d.sort
}

// SetSort installs an explicit sort state and returns to the first page.
func (d *Dashboard) SetSort(s sorting.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sort != s {
		d.sort = s
		d.cursor.Reset()
	}
}

func (d *Dashboard) Sort() sorting.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sort
}

// Filtered returns the store contents filtered and sorted by the current state.
func (d *Dashboard) Filtered() []model.LogEntry {
	c, s := d.Criteria(), d.Sort()
	return sorting.Sort(filter.Apply(d.store.Entries(), c), s)
}

// View returns the current page of the filtered, sorted entries.
func (d *Dashboard) View() View {
	d.mu.Lock()
	c, s, page, size := d.criteria, d.sort, d.cursor.Page, d.cursor.Size
	d.mu.Unlock()

	entries := sorting.Sort(filter.Apply(d.store.Entries(), c), s)
	return View{
		Window:   paginate.Paginate(entries, page, size),
		Criteria: c,
		Summary:  c.Summary(),
		Sort:     s,
		Selected: d.selection.Size(),
	}
}

// NextPage advances unless the current page is the last.
func (d *Dashboard) NextPage() bool {
	total := len(d.Filtered())
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor.Next(total)
}

// PrevPage steps back unless on the first page.
func (d *Dashboard) PrevPage() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor.Prev()
}

// SetPage jumps to page, rejecting pages outside the filtered view.
func (d *Dashboard) SetPage(page int) error {
	total := len(d.Filtered())
	d.mu.Lock()
	defer d.mu.Unlock()
	if last := lastPage(total, d.cursor.Size); page < 1 || page > last {
		return invalid("page %d out of range 1-%d", page, last)
	}
	d.cursor.Page = page
	return nil
}

// ViewRequest changes filter, sort and page in one step.
type ViewRequest struct {
	Criteria filter.Criteria
	Sort     *sorting.State // nil keeps the current sort
	Page     int            // 0 keeps the page, or the first page after a change
}

// Apply validates every part of req before installing any of it, so a
// rejected request leaves the view as it was.
func (d *Dashboard) Apply(req ViewRequest) error {
	if err := req.Criteria.Validate(); err != nil {
		return invalid("%v", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	sort := d.sort
	if req.Sort != nil {
		sort = *req.Sort
	}
	if req.Page != 0 {
		total := len(filter.Apply(d.store.Entries(), req.Criteria))
		if last := lastPage(total, d.cursor.Size); req.Page < 1 || req.Page > last {
			return invalid("page %d out of range 1-%d", req.Page, last)
		}
	}

	if d.criteria != req.Criteria || d.sort != sort {
		d.criteria = req.Criteria
		d.sort = sort
		d.cursor.Reset()
	}
	if req.Page != 0 {
		d.cursor.Page = req.Page
	}
	return nil
}

// SelectPage marks every entry on the current page.
func (d *Dashboard) SelectPage() int {
	w := d.View().Window
	ids := make([]int64, len(w.Entries))
	for i, e := range w.Entries {
		ids[i] = e.ID
	}
	d.selection.SelectAll(ids)
	return len(ids)
}

// ExportFiltered serializes the filtered, sorted view.
func (d *Dashboard) ExportFiltered(f export.Format) ([]byte, string, error) {
	entries := d.Filtered()
	if len(entries) == 0 {
		return nil, "", invalid("no entries to export")
	}
	out, err := export.Render(entries, f)
	return out, export.Filename(f, false), err
}

// ExportSelected serializes the selected entries, resolved against the full
// store rather than the filtered view.
func (d *Dashboard) ExportSelected(f export.Format) ([]byte, string, error) {
	if d.selection.Size() == 0 {
		return nil, "", invalid("no entries selected")
	}
	entries := d.store.Lookup(d.selection.Contains)
	out, err := export.Render(entries, f)
	return out, export.Filename(f, true), err
}
