package cmd

import (
	"fmt"
	"log/slog"

	"github.com/atikulmunna/logdash/internal/aggregator"
	"github.com/atikulmunna/logdash/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveListen    string
	serveTail      []string
	servePattern   string
	serveFromStart bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	Long: `Load the backend's log files and entries, keep them refreshed and serve
the dashboard API: filtering, sorting, paging, selection, export, bulk delete,
upload, analysis and incident search. With --tail, local files are tailed too
and their parsed lines stream over /ws.

Examples:
  logdash serve
  logdash serve --listen :8080 --tail "/var/log/**/*.log"`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default :7575)")
	serveCmd.Flags().StringSliceVar(&serveTail, "tail", nil, "local files or globs to tail and stream over /ws")
	serveCmd.Flags().StringVar(&servePattern, "pattern", "", "regex with named groups for tailed lines")
	serveCmd.Flags().BoolVar(&serveFromStart, "from-start", false, "read tailed files from the beginning when no checkpoint exists")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	addr := cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}

	d := newDashboard()
	if err := d.Reload(ctx); err != nil {
		// The backend may come up later; auto-refresh will retry.
		slog.Warn("initial load failed", "api_base", cfg.APIBase, "error", err)
	}

	var opts server.Options
	if len(serveTail) > 0 {
		lp, err := newLivePipeline(serveTail, servePattern, serveFromStart)
		if err != nil {
			return err
		}
		agg := aggregator.New(lp.hub.Subscribe(), aggregator.Counters{
			Dropped:      lp.hub.Dropped,
			Skipped:      lp.hub.Skipped,
			FilesWatched: func() int { return len(lp.watcher.Paths()) },
		})
		lp.Start(ctx)
		go agg.Start(ctx)
		opts = server.Options{Hub: lp.hub, Aggregator: agg}
		slog.Info("tailing local files", "files", len(lp.watcher.Paths()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.AutoRefresh(gctx, cfg.RefreshInterval)
		return nil
	})
	g.Go(func() error {
		if err := server.New(d, addr, opts).Start(gctx); err != nil {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})
	return g.Wait()
}
