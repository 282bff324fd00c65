package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LOGDASH_API_BASE.
const EnvPrefix = "LOGDASH"

// Config is the resolved runtime configuration.
type Config struct {
	APIBase             string        `mapstructure:"api_base"`
	Timeout             time.Duration `mapstructure:"timeout"`
	PageSize            int           `mapstructure:"page_size"`
	RefreshInterval     time.Duration `mapstructure:"refresh_interval"`
	Listen              string        `mapstructure:"listen"`
	RateLimit           float64       `mapstructure:"rate_limit"`
	DeleteConcurrency   int           `mapstructure:"delete_concurrency"`
	TopK                int           `mapstructure:"top_k"`
	SimilarityThreshold float64       `mapstructure:"similarity_threshold"`
	Output              string        `mapstructure:"output"`
	Checkpoint          string        `mapstructure:"checkpoint"`
	Log                 Log           `mapstructure:"log"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key so env overrides resolve without a file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_base", "http://127.0.0.1:8000")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("page_size", 20)
	v.SetDefault("refresh_interval", 10*time.Second)
	v.SetDefault("listen", ":7575")
	v.SetDefault("rate_limit", 20.0)
	v.SetDefault("delete_concurrency", 8)
	v.SetDefault("top_k", 5)
	v.SetDefault("similarity_threshold", 0.7)
	v.SetDefault("output", "text")
	v.SetDefault("checkpoint", ".logdash-state.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Init prepares v to read cfgFile, or .logdash.yaml from $HOME or the
// working directory, plus LOGDASH_* environment variables. A missing
// config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".logdash")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.APIBase == "":
		return fmt.Errorf("config: api_base must not be empty")
	case c.PageSize <= 0:
		return fmt.Errorf("config: page_size must be positive, got %d", c.PageSize)
	case c.DeleteConcurrency <= 0:
		return fmt.Errorf("config: delete_concurrency must be positive, got %d", c.DeleteConcurrency)
	case c.RefreshInterval < 0:
		return fmt.Errorf("config: refresh_interval must not be negative")
	case c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1:
		return fmt.Errorf("config: similarity_threshold must be within [0, 1], got %g", c.SimilarityThreshold)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: invalid log.level %q", s)
	}
	return l, nil
}

// NewLogger builds the process logger from the log section.
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
