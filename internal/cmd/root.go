package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atikulmunna/logdash/internal/client"
	"github.com/atikulmunna/logdash/internal/config"
	"github.com/atikulmunna/logdash/internal/dashboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	levelFilter string
	cfg         config.Config
)

var rootCmd = &cobra.Command{
	Use:   "logdash",
	Short: "logdash: log analysis dashboard",
	Long: `logdash browses, filters and exports the log entries held by the log
analysis backend, uploads new log files, runs AI root-cause analysis and
searches past incidents. It can also tail local files and stream parsed
entries to the terminal or a live web socket.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logdash.yaml)")
	flags.StringP("output", "o", "text", "output format: text, json")
	flags.String("api-base", "", "backend base URL (default http://127.0.0.1:8000)")
	flags.StringVarP(&levelFilter, "level", "l", "", "filter by severity (watch accepts a comma-separated list)")

	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("api_base", flags.Lookup("api-base"))
}

func loadConfig(_ *cobra.Command, _ []string) error {
	v := viper.GetViper()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}

	c, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = c
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newDashboard() *dashboard.Dashboard {
	cl := client.New(client.Options{
		BaseURL:     cfg.APIBase,
		Timeout:     cfg.Timeout,
		RateLimit:   cfg.RateLimit,
		Concurrency: cfg.DeleteConcurrency,
	})
	return dashboard.New(cl, dashboard.Options{
		PageSize:            cfg.PageSize,
		TopK:                cfg.TopK,
		SimilarityThreshold: cfg.SimilarityThreshold,
	})
}

func jsonOutput() bool { return cfg.Output == "json" }
