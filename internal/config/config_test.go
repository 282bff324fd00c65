package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	c, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.APIBase != "http://127.0.0.1:8000" {
		t.Errorf("unexpected api_base %q", c.APIBase)
	}
	if c.Timeout != 10*time.Second || c.RefreshInterval != 10*time.Second {
		t.Errorf("unexpected durations %v %v", c.Timeout, c.RefreshInterval)
	}
	if c.PageSize != 20 || c.TopK != 5 || c.SimilarityThreshold != 0.7 {
		t.Errorf("unexpected dashboard defaults %+v", c)
	}
	if c.Listen != ":7575" || c.Checkpoint != ".logdash-state.json" {
		t.Errorf("unexpected serve defaults %+v", c)
	}
}

func TestConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logdash.yaml")
	yaml := "api_base: http://backend:9000\npage_size: 50\nrefresh_interval: 0s\nlog:\n  level: debug\n  format: json\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOGDASH_TOP_K", "9")
	t.Setenv("LOGDASH_LOG_FORMAT", "text")

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatal(err)
	}
	c, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.APIBase != "http://backend:9000" || c.PageSize != 50 {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.RefreshInterval != 0 {
		t.Errorf("expected auto-refresh disabled, got %v", c.RefreshInterval)
	}
	if c.TopK != 9 {
		t.Errorf("expected env top_k 9, got %d", c.TopK)
	}
	if c.Log.Level != "debug" || c.Log.Format != "text" {
		t.Errorf("unexpected log config %+v", c.Log)
	}
}

func TestInitMissingExplicitFile(t *testing.T) {
	if err := Init(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	base, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty api base", func(c *Config) { c.APIBase = "" }},
		{"zero page size", func(c *Config) { c.PageSize = 0 }},
		{"zero concurrency", func(c *Config) { c.DeleteConcurrency = 0 }},
		{"negative refresh", func(c *Config) { c.RefreshInterval = -time.Second }},
		{"threshold above one", func(c *Config) { c.SimilarityThreshold = 1.5 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Log{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("expected JSON record, got %q", out)
	}
	if l, _ := ParseLevel("DEBUG"); l != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", l)
	}
}
