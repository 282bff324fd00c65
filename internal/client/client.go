package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atikulmunna/logdash/internal/metrics"
	"github.com/atikulmunna/logdash/internal/model"
	"golang.org/x/time/rate"
)

// ErrNetwork matches every *NetworkError via errors.Is.
var ErrNetwork = errors.New("network failure")

// NetworkError is a failed backend call: transport error or non-2xx status.
type NetworkError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// NotFound reports whether the backend answered 404.
func (e *NetworkError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// Options configures a Client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	RateLimit   float64 // requests per second, 0 = unlimited
	Concurrency int     // parallel requests in bulk operations
	HTTPClient  *http.Client
}

// Client speaks the backend's REST contract.
type Client struct {
	base        string
	http        *http.Client
	limiter     *rate.Limiter
	concurrency int
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit)))
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Client{
		base:        strings.TrimRight(opts.BaseURL, "/"),
		http:        hc,
		limiter:     limiter,
		concurrency: concurrency,
	}
}

// ListLogFiles calls GET /logs_sql.
func (c *Client) ListLogFiles(ctx context.Context) ([]model.LogFile, error) {
	var files []model.LogFile
	err := c.do(ctx, "list log files", http.MethodGet, "/logs_sql", nil, &files)
	return files, err
}

// CreateLogFile calls POST /logs_sql.
func (c *Client) CreateLogFile(ctx context.Context, f model.LogFile) (model.LogFile, error) {
	f.ID = 0
	var created model.LogFile
	err := c.do(ctx, "create log file", http.MethodPost, "/logs_sql", f, &created)
	return created, err
}

// GetLogFile calls GET /logs_sql/{id}.
func (c *Client) GetLogFile(ctx context.Context, id int64) (model.LogFile, error) {
	var f model.LogFile
	err := c.do(ctx, "get log file", http.MethodGet, "/logs_sql/"+strconv.FormatInt(id, 10), nil, &f)
	return f, err
}

// UpdateLogFile calls PUT /logs_sql/{id} with the full file.
func (c *Client) UpdateLogFile(ctx context.Context, f model.LogFile) (model.LogFile, error) {
	var updated model.LogFile
	err := c.do(ctx, "update log file", http.MethodPut, "/logs_sql/"+strconv.FormatInt(f.ID, 10), f, &updated)
	return updated, err
}

// ListEntries calls GET /log_entries_sql.
func (c *Client) ListEntries(ctx context.Context) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	err := c.do(ctx, "list entries", http.MethodGet, "/log_entries_sql", nil, &entries)
	return entries, err
}

// DeleteEntry calls DELETE /log_entries_sql/{id}.
func (c *Client) DeleteEntry(ctx context.Context, id int64) error {
	return c.do(ctx, "delete entry", http.MethodDelete, "/log_entries_sql/"+strconv.FormatInt(id, 10), nil, nil)
}

// Analyze calls POST /analyze and returns the analysis text.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	var resp struct {
		Analysis string `json:"analysis"`
	}
	err := c.do(ctx, "analyze", http.MethodPost, "/analyze", map[string]string{"log": prompt}, &resp)
	return resp.Analysis, err
}

// SearchParams are the query parameters of GET /vector/search.
type SearchParams struct {
	Query               string
	TopK                int
	SimilarityThreshold float64
}

// Search calls GET /vector/search.
func (c *Client) Search(ctx context.Context, p SearchParams) (model.SearchResult, error) {
	q := url.Values{}
	q.Set("query", p.Query)
	q.Set("top_k", strconv.Itoa(p.TopK))
	q.Set("similarity_threshold", strconv.FormatFloat(p.SimilarityThreshold, 'f', -1, 64))

	var res model.SearchResult
	err := c.do(ctx, "search incidents", http.MethodGet, "/vector/search?"+q.Encode(), nil, &res)
	return res, err
}

// do performs one request, throttled by the rate limiter. A non-nil out is
// decoded from the response body.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.BackendRequests.WithLabelValues(op, status).Inc()
		metrics.BackendLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(detail(resp))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// detail extracts a FastAPI-style {"detail": ...} message, falling back to
// the status text.
func detail(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Detail != nil {
		return fmt.Sprint(body.Detail)
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
