package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/atikulmunna/logdash/internal/model"
)

func TestShouldShow(t *testing.T) {
	levels := parseLevels("error, Critical,")
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %v", levels)
	}

	tests := []struct {
		level model.Level
		want  bool
	}{
		{model.LevelError, true},
		{model.LevelCritical, true},
		{model.LevelInfo, false},
	}
	for _, tt := range tests {
		e := model.LiveEntry{LogEntry: model.LogEntry{Level: tt.level}}
		if got := shouldShow(e, levels); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.level, tt.want, got)
		}
	}

	if !shouldShow(model.LiveEntry{}, parseLevels("")) {
		t.Error("empty filter should show everything")
	}
}

func TestParseCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "app.log")
	content := "2024-01-15 10:30:00 [ERROR] [auth] Login failed\n\nINFO [api] ready\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"parse", path, "--output", "json"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["source"] != "auth" || entries[0]["message"] != "[auth] Login failed" {
		t.Errorf("unexpected first entry %v", entries[0])
	}
	if !bytes.Contains(stderr.Bytes(), []byte("2 entries parsed, 2 lines skipped")) {
		t.Errorf("unexpected summary %q", stderr.String())
	}
}
