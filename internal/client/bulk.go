package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DeleteResult is the settled outcome of deleting one entry.
type DeleteResult struct {
	ID  int64 `json:"id"`
	Err error `json:"-"`
}

// BulkResult collects every outcome of a bulk delete, in request order.
type BulkResult struct {
	Results []DeleteResult
}

// OK reports whether every deletion succeeded.
func (r BulkResult) OK() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return true
}

// Succeeded returns the ids that were deleted.
func (r BulkResult) Succeeded() []int64 {
	var ids []int64
	for _, res := range r.Results {
		if res.Err == nil {
			ids = append(ids, res.ID)
		}
	}
	return ids
}

// Failed returns the outcomes that carry an error.
func (r BulkResult) Failed() []DeleteResult {
	var failed []DeleteResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every per-id failure, or returns nil.
func (r BulkResult) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("entry %d: %w", res.ID, res.Err))
	}
	return errors.Join(errs...)
}

// DeleteEntries issues one DELETE per id and waits for all of them. A
// failure never cancels the others; nothing is rolled back.
func (c *Client) DeleteEntries(ctx context.Context, ids []int64) BulkResult {
	results := make([]DeleteResult, len(ids))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = DeleteResult{ID: id, Err: c.DeleteEntry(ctx, id)}
			return nil
		})
	}
	_ = g.Wait()

	return BulkResult{Results: results}
}
