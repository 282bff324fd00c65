package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/atikulmunna/logdash/internal/hub"
	"github.com/atikulmunna/logdash/internal/model"
	"github.com/atikulmunna/logdash/internal/output"
	"github.com/atikulmunna/logdash/internal/parser"
	"github.com/atikulmunna/logdash/internal/tailer"
	"github.com/atikulmunna/logdash/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	watchPattern   string
	watchFromStart bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Tail local log files and stream parsed entries",
	Long: `Watch one or more log files (or glob patterns) and stream new lines,
parsed into level, source and message, to the terminal in real time.

Examples:
  logdash watch /var/log/app.log
  logdash watch "/var/log/**/*.log" --level error,critical
  logdash watch app.log --output json --from-start`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "regex with named groups (timestamp, level, message, source, function, line)")
	watchCmd.Flags().BoolVar(&watchFromStart, "from-start", false, "read files from the beginning when no checkpoint exists")
	rootCmd.AddCommand(watchCmd)
}

// livePipeline is the watcher, tailer and hub chain shared by watch and serve.
type livePipeline struct {
	watcher *watcher.Watcher
	tailer  *tailer.Tailer
	hub     *hub.Hub
}

func newLivePipeline(globs []string, pattern string, fromStart bool) (*livePipeline, error) {
	w, err := watcher.New(globs)
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if len(w.Paths()) == 0 {
		return nil, fmt.Errorf("no files matched the given patterns: %v", globs)
	}

	ckpt, err := tailer.NewCheckpoint(cfg.Checkpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	p, err := lineParser(pattern)
	if err != nil {
		return nil, err
	}

	t := tailer.New(w, ckpt, tailer.Options{FromStart: fromStart})
	return &livePipeline{watcher: w, tailer: t, hub: hub.New(t.Lines(), p)}, nil
}

// Start runs every stage in the background. Subscribe before calling it.
func (lp *livePipeline) Start(ctx context.Context) {
	go lp.watcher.Start(ctx)
	go lp.tailer.Start(ctx)
	go lp.hub.Start(ctx)
}

// lineParser returns the regex parser for pattern, or by default the parser
// that reads JSON object lines and falls back to the heuristic parser.
func lineParser(pattern string) (parser.Parser, error) {
	if pattern == "" {
		return parser.NewAutoParser(), nil
	}
	return parser.NewRegexParser(pattern)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	lp, err := newLivePipeline(args, watchPattern, watchFromStart)
	if err != nil {
		return err
	}

	renderer, err := output.New(cfg.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	paths := lp.watcher.Paths()
	fmt.Fprintf(os.Stderr, "logdash watching %d file(s):\n", len(paths))
	for _, p := range paths {
		fmt.Fprintf(os.Stderr, "   • %s\n", p)
	}
	fmt.Fprintln(os.Stderr)

	levels := parseLevels(levelFilter)
	entries := lp.hub.Subscribe()
	lp.Start(ctx)

	for entry := range entries {
		if !shouldShow(entry, levels) {
			continue
		}
		if err := renderer.Render(entry); err != nil {
			slog.Warn("render error", "error", err)
		}
	}

	fmt.Fprintf(os.Stderr, "\nlogdash stopped (skipped %d unparseable line(s), dropped %d)\n",
		lp.hub.Skipped(), lp.hub.Dropped())
	return nil
}

func parseLevels(csv string) map[model.Level]bool {
	set := make(map[model.Level]bool)
	for _, l := range strings.Split(csv, ",") {
		if l = strings.TrimSpace(l); l != "" {
			set[model.NormalizeLevel(l)] = true
		}
	}
	return set
}

// shouldShow reports whether entry passes the level filter; an empty set
// shows everything.
func shouldShow(entry model.LiveEntry, levels map[model.Level]bool) bool {
	if len(levels) == 0 {
		return true
	}
	return levels[entry.Level]
}
