package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atikulmunna/logdash/internal/client"
	"github.com/atikulmunna/logdash/internal/filter"
	"github.com/atikulmunna/logdash/internal/metrics"
	"github.com/atikulmunna/logdash/internal/model"
	"github.com/atikulmunna/logdash/internal/paginate"
	"github.com/atikulmunna/logdash/internal/selection"
	"github.com/atikulmunna/logdash/internal/sorting"
	"github.com/atikulmunna/logdash/internal/store"
	"golang.org/x/sync/errgroup"
)

// ErrValidation marks a request rejected before anything was sent.
var ErrValidation = errors.New("validation failure")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Backend is the subset of the REST client the dashboard drives.
type Backend interface {
	ListLogFiles(ctx context.Context) ([]model.LogFile, error)
	CreateLogFile(ctx context.Context, f model.LogFile) (model.LogFile, error)
	GetLogFile(ctx context.Context, id int64) (model.LogFile, error)
	UpdateLogFile(ctx context.Context, f model.LogFile) (model.LogFile, error)
	ListEntries(ctx context.Context) ([]model.LogEntry, error)
	DeleteEntries(ctx context.Context, ids []int64) client.BulkResult
	Analyze(ctx context.Context, prompt string) (string, error)
	Search(ctx context.Context, p client.SearchParams) (model.SearchResult, error)
}

// Options tunes a Dashboard.
type Options struct {
	PageSize            int
	TopK                int
	SimilarityThreshold float64
	Now                 func() time.Time
}

// Dashboard owns the operator's state: the entry store, the filter
// criteria, the sort state, the page cursor and the selection.
type Dashboard struct {
	backend   Backend
	store     *store.Store
	selection *selection.Tracker
	opts      Options

	mu       sync.Mutex // guards criteria, sort, cursor
	criteria filter.Criteria
	sort     sorting.State
	cursor   *paginate.Cursor

	paused atomic.Bool
}

func New(b Backend, opts Options) *Dashboard {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = 0.7
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dashboard{
		backend:   b,
		store:     store.New(),
		selection: selection.New(),
		opts:      opts,
		sort:      sorting.Default,
		cursor:    paginate.NewCursor(opts.PageSize),
	}
}

func (d *Dashboard) Store() *store.Store { return d.store }

func (d *Dashboard) Selection() *selection.Tracker { return d.selection }

// Reload fetches files and entries and replaces the store wholesale. A
// reload that finishes after a newer one has landed is discarded.
func (d *Dashboard) Reload(ctx context.Context) error {
	seq := d.store.Begin()

	var (
		files   []model.LogFile
		entries []model.LogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		files, err = d.backend.ListLogFiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		entries, err = d.backend.ListEntries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	if d.store.Commit(seq, files, entries) {
		metrics.StoreEntries.Set(float64(d.store.Len()))
		d.clampPage()
		slog.Debug("store reloaded", "files", len(files), "entries", len(entries))
	}
	return nil
}

// clampPage pulls the cursor back onto the last page when a reload has
// shrunk the filtered view below it.
func (d *Dashboard) clampPage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := len(filter.Apply(d.store.Entries(), d.criteria))
	if last := lastPage(total, d.cursor.Size); d.cursor.Page > last {
		d.cursor.Page = last
	}
}

func lastPage(total, size int) int {
	return max(1, (total+size-1)/size)
}

// AutoRefresh reloads every interval until ctx is done. Failures are
// logged and the loop carries on; paused ticks are skipped.
func (d *Dashboard) AutoRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if d.paused.Load() {
				continue
			}
			if err := d.Reload(ctx); err != nil {
				slog.Warn("auto-refresh failed", "error", err)
			}
		}
	}
}

// ToggleAutoRefresh pauses or resumes AutoRefresh and reports whether it
// is now running.
func (d *Dashboard) ToggleAutoRefresh() bool {
	for {
		old := d.paused.Load()
		if d.paused.CompareAndSwap(old, !old) {
			return old
		}
	}
}

// AutoRefreshEnabled reports whether AutoRefresh ticks are acted on.
func (d *Dashboard) AutoRefreshEnabled() bool { return !d.paused.Load() }

// Stats returns the dashboard counters.
func (d *Dashboard) Stats() store.Stats { return d.store.Stats() }

// Sources returns the options for the source filter.
func (d *Dashboard) Sources() []string { return d.store.Sources() }
