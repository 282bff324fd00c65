package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/atikulmunna/logdash/internal/client"
	"github.com/atikulmunna/logdash/internal/model"
)

const analysisPrompt = "You are an expert DevOps engineer. Analyze the following log file and stack trace. " +
	"Identify the root cause, point to the exact line or function if possible, and propose a concrete solution. " +
	"If the error is related to a known library or framework, suggest a fix or workaround.\n\nLog file content:\n"

// DeleteSelected deletes every selected entry and reloads the store.
// The selection is cleared only when all deletions succeed; on partial
// failure just the deleted ids leave it, so the rest can be retried.
func (d *Dashboard) DeleteSelected(ctx context.Context) (client.BulkResult, error) {
	ids := d.selection.IDs()
	if len(ids) == 0 {
		return client.BulkResult{}, invalid("no entries selected")
	}

	res := d.backend.DeleteEntries(ctx, ids)
	if res.OK() {
		d.selection.Clear()
		slog.Info("deleted selected entries", "count", len(ids))
	} else {
		d.selection.Remove(res.Succeeded())
		slog.Warn("bulk delete incomplete", "deleted", len(res.Succeeded()), "failed", len(res.Failed()))
	}

	err := res.Err()
	if rerr := d.Reload(ctx); rerr != nil {
		err = errors.Join(err, rerr)
	}
	return res, err
}

// Upload sends a raw log file to the backend as a pending file, then reloads.
func (d *Dashboard) Upload(ctx context.Context, filename string, content []byte) (model.LogFile, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return model.LogFile{}, invalid("filename is required")
	}
	if !utf8.Valid(content) {
		return model.LogFile{}, invalid("%s is not valid UTF-8 text", filename)
	}

	created, err := d.backend.CreateLogFile(ctx, model.LogFile{
		Filename:       filename,
		Size:           int64(len(content)),
		UploadTime:     d.opts.Now().UTC(),
		LogCount:       0,
		AnalysisStatus: model.AnalysisPending,
		Content:        string(content),
	})
	if err != nil {
		return model.LogFile{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	slog.Info("log file uploaded", "id", created.ID, "filename", filename, "size", len(content))

	if err := d.Reload(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// File fetches one log file, content included, from the backend.
func (d *Dashboard) File(ctx context.Context, id int64) (model.LogFile, error) {
	f, err := d.backend.GetLogFile(ctx, id)
	if err != nil {
		return model.LogFile{}, fmt.Errorf("get file %d: %w", id, err)
	}
	return f, nil
}

// Analyze runs AI root-cause analysis on a file's full content and stores
// the result on the file, marking it completed.
func (d *Dashboard) Analyze(ctx context.Context, id int64) (model.LogFile, error) {
	f, err := d.backend.GetLogFile(ctx, id)
	if err != nil {
		return model.LogFile{}, fmt.Errorf("analyze file %d: %w", id, err)
	}
	if strings.TrimSpace(f.Content) == "" {
		return model.LogFile{}, invalid("no log content to analyze for file %d", id)
	}

	analysis, err := d.backend.Analyze(ctx, analysisPrompt+f.Content)
	if err != nil {
		return model.LogFile{}, fmt.Errorf("analyze file %d: %w", id, err)
	}

	f.ID = id
	f.AnalysisStatus = model.AnalysisCompleted
	f.AnalysisResult = &analysis
	updated, err := d.backend.UpdateLogFile(ctx, f)
	if err != nil {
		return model.LogFile{}, fmt.Errorf("store analysis for file %d: %w", id, err)
	}
	slog.Info("analysis completed", "id", id, "filename", f.Filename)

	if err := d.Reload(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

// Search looks up past incidents similar to query. Zero topK or threshold
// fall back to the configured defaults.
func (d *Dashboard) Search(ctx context.Context, query string, topK int, threshold float64) (model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.SearchResult{}, invalid("search query is required")
	}
	if topK == 0 {
		topK = d.opts.TopK
	}
	if threshold == 0 {
		threshold = d.opts.SimilarityThreshold
	}
	if topK < 0 {
		return model.SearchResult{}, invalid("top_k must be positive")
	}
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return model.SearchResult{}, invalid("similarity_threshold must be within 0-1")
	}

	res, err := d.backend.Search(ctx, client.SearchParams{Query: query, TopK: topK, SimilarityThreshold: threshold})
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return res, nil
}
