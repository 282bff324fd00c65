package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, Concurrency: 2})
}

func TestListEntries(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/log_entries_sql" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`[{"id":1,"log_file_id":2,"timestamp":"2024-01-01T10:00:00","level":"ERROR","message":"boom","source":"api","function_name":null,"line_number":null}]`))
	}))

	entries, err := c.ListEntries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != 1 || entries[0].Level != model.LevelError {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestCreateLogFileBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/logs_sql" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		for _, key := range []string{"filename", "size", "upload_time", "log_count", "log_analysis_status", "analysis_result", "content"} {
			if _, ok := body[key]; !ok {
				t.Errorf("missing key %q in body", key)
			}
		}
		if _, ok := body["id"]; ok {
			t.Error("id must not be sent on create")
		}
		w.Write([]byte(`{"id":5,"filename":"app.log","size":3,"upload_time":"2024-01-01T10:00:00","log_count":1,"log_analysis_status":"pending","analysis_result":null,"content":"abc"}`))
	}))

	f, err := c.CreateLogFile(context.Background(), model.LogFile{
		Filename:       "app.log",
		Size:           3,
		UploadTime:     time.Now(),
		AnalysisStatus: model.AnalysisPending,
		Content:        "abc",
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 5 || f.LogCount != 1 {
		t.Errorf("unexpected created file %+v", f)
	}
}

func TestSearchQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/vector/search" || q.Get("query") != "disk full" || q.Get("top_k") != "3" || q.Get("similarity_threshold") != "0.5" {
			t.Errorf("unexpected search request %s", r.URL.String())
		}
		w.Write([]byte(`{"query":"disk full","total_found":1,"results":[{"incident_id":"inc-1","severity":"high","category":"storage","similarity_score":0.91,"timestamp":"2024-01-01","log_content":"x","analysis":"y","source_file":"app.log"}]}`))
	}))

	res, err := c.Search(context.Background(), SearchParams{Query: "disk full", TopK: 3, SimilarityThreshold: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFound != 1 || res.Results[0].IncidentID != "inc-1" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestNetworkErrorOnStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"LogFile not found"}`))
	}))

	_, err := c.GetLogFile(context.Background(), 9)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	var nerr *NetworkError
	if !errors.As(err, &nerr) || !nerr.NotFound() {
		t.Fatalf("expected 404 NetworkError, got %v", err)
	}
	if !strings.Contains(err.Error(), "LogFile not found") {
		t.Errorf("expected backend detail in error, got %q", err.Error())
	}
}

func TestNetworkErrorOnTransport(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	err := c.DeleteEntry(context.Background(), 1)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestDeleteEntriesSettlesEveryID(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		mu.Lock()
		seen = append(seen, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/log_entries_sql/2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))

	res := c.DeleteEntries(context.Background(), []int64{1, 2, 3})

	if len(seen) != 3 {
		t.Errorf("expected all 3 requests issued, got %v", seen)
	}
	if res.OK() {
		t.Error("expected aggregate failure")
	}
	ok := res.Succeeded()
	if len(ok) != 2 || ok[0] != 1 || ok[1] != 3 {
		t.Errorf("expected [1 3] succeeded, got %v", ok)
	}
	failed := res.Failed()
	if len(failed) != 1 || failed[0].ID != 2 {
		t.Errorf("expected entry 2 failed, got %+v", failed)
	}
	if !errors.Is(res.Err(), ErrNetwork) {
		t.Errorf("expected joined error to match ErrNetwork, got %v", res.Err())
	}
}
