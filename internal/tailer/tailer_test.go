package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
	"github.com/atikulmunna/logdash/internal/watcher"
)

func startTail(t *testing.T, logPath string, opts Options) (*Tailer, *Checkpoint, context.CancelFunc) {
	t.Helper()

	w, err := watcher.New([]string{logPath})
	if err != nil {
		t.Fatal(err)
	}
	ckpt, err := NewCheckpoint(filepath.Join(filepath.Dir(logPath), ".logdash-state.json"))
	if err != nil {
		t.Fatal(err)
	}

	tail := New(w, ckpt, opts)
	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	go tail.Start(ctx)

	t.Cleanup(func() {
		cancel()
		// Let goroutines release files before TempDir cleanup.
		time.Sleep(200 * time.Millisecond)
	})
	return tail, ckpt, cancel
}

func appendTo(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		t.Fatal(err)
	}
}

func nextLine(t *testing.T, tail *Tailer) model.RawLine {
	t.Helper()
	select {
	case raw := <-tail.Lines():
		return raw
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for log line")
	}
	return model.RawLine{}
}

func TestTailNewLines(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	if err := os.WriteFile(logPath, []byte("existing line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tail, _, _ := startTail(t, logPath, Options{})
	time.Sleep(300 * time.Millisecond)

	appendTo(t, logPath, "[ERROR] hello from test\n")

	raw := nextLine(t, tail)
	if raw.Text != "[ERROR] hello from test" {
		t.Errorf("expected appended line, got %q", raw.Text)
	}
	if raw.Path != logPath {
		t.Errorf("expected path %q, got %q", logPath, raw.Path)
	}
}

func TestTailFromStartAndPartialLines(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	if err := os.WriteFile(logPath, []byte("first\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tail, ckpt, _ := startTail(t, logPath, Options{FromStart: true})

	if raw := nextLine(t, tail); raw.Text != "first" {
		t.Errorf("expected existing line with CRLF trimmed, got %q", raw.Text)
	}

	time.Sleep(300 * time.Millisecond)
	appendTo(t, logPath, "split ")
	time.Sleep(300 * time.Millisecond)
	appendTo(t, logPath, "line\n")

	if raw := nextLine(t, tail); raw.Text != "split line" {
		t.Errorf("expected partial writes joined, got %q", raw.Text)
	}

	time.Sleep(100 * time.Millisecond)
	if off, ok := ckpt.Get(logPath); !ok || off != int64(len("first\r\nsplit line\n")) {
		t.Errorf("expected offset after complete lines, got %d (found=%v)", off, ok)
	}
}

func TestCheckpointSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ckpt.json")

	c1, err := NewCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	c1.Set("/var/log/app.log", 42)
	c1.Set("/var/log/err.log", 1024)
	if err := c1.Save(); err != nil {
		t.Fatal(err)
	}

	c2, err := NewCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}

	if v, ok := c2.Get("/var/log/app.log"); !ok || v != 42 {
		t.Errorf("expected 42, got %d (found=%v)", v, ok)
	}
	if v, ok := c2.Get("/var/log/err.log"); !ok || v != 1024 {
		t.Errorf("expected 1024, got %d (found=%v)", v, ok)
	}
	if _, ok := c2.Get("/nonexistent"); ok {
		t.Error("expected missing key to return false")
	}
}

func TestCheckpointCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ckpt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCheckpoint(path); err == nil {
		t.Error("expected error for corrupt checkpoint")
	}
}

func TestCheckpointInMemory(t *testing.T) {
	c, err := NewCheckpoint("")
	if err != nil {
		t.Fatal(err)
	}
	c.Set("a", 1)
	if err := c.Save(); err != nil {
		t.Errorf("expected in-memory save to be a no-op, got %v", err)
	}
}
