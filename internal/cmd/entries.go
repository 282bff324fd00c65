package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atikulmunna/logdash/internal/dashboard"
	"github.com/atikulmunna/logdash/internal/filter"
	"github.com/atikulmunna/logdash/internal/output"
	"github.com/atikulmunna/logdash/internal/sorting"
	"github.com/spf13/cobra"
)

// viewFlags are the filter and sort flags shared by entries and export.
type viewFlags struct {
	message string
	source  string
	from    string
	to      string
	sort    string
	dir     string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "case-insensitive message substring")
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "exact source")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort field (timestamp, level, message, source, function_name, line_number, id, log_file_id)")
	cmd.Flags().StringVar(&f.dir, "dir", "", "sort direction: asc, desc")
}

// apply installs the flags' filter and sort on d. The level comes from the
// global --level flag.
func (f *viewFlags) apply(d *dashboard.Dashboard) error {
	level := strings.TrimSpace(levelFilter)
	if strings.Contains(level, ",") {
		return fmt.Errorf("--level takes a single level here, got %q", levelFilter)
	}
	crit := filter.Criteria{
		Level:    strings.ToUpper(level),
		Message:  f.message,
		Source:   f.source,
		DateFrom: f.from,
		DateTo:   f.to,
	}
	if err := d.SetCriteria(crit); err != nil {
		return err
	}

	if f.sort == "" {
		return nil
	}
	field, err := sorting.ParseField(f.sort)
	if err != nil {
		return err
	}
	dir, err := sorting.ParseDirection(f.dir)
	if err != nil {
		return err
	}
	d.SetSort(sorting.State{Field: field, Direction: dir})
	return nil
}

var (
	entriesView  viewFlags
	entriesPage  int
	entriesStats bool
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List log entries from the backend",
	Long: `Load every entry from the backend, apply the filter and sort, and print
one page as a table (or JSON with --output json).

Examples:
  logdash entries --level ERROR --source auth
  logdash entries --message timeout --from 2024-01-01 --sort level --dir desc --page 2`,
	Args: cobra.NoArgs,
	RunE: runEntries,
}

func init() {
	entriesView.register(entriesCmd)
	entriesCmd.Flags().IntVarP(&entriesPage, "page", "p", 1, "page number")
	entriesCmd.Flags().BoolVar(&entriesStats, "stats", false, "print the dashboard counters first")
	rootCmd.AddCommand(entriesCmd)
}

func runEntries(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	d := newDashboard()
	if err := d.Reload(ctx); err != nil {
		return err
	}
	if err := entriesView.apply(d); err != nil {
		return err
	}
	if err := d.SetPage(entriesPage); err != nil {
		return err
	}

	view := d.View()
	out := cmd.OutOrStdout()
	if jsonOutput() {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	if entriesStats {
		if err := output.WriteStats(out, d.Stats()); err != nil {
			return err
		}
	}
	return output.WriteEntries(out, view.Window, view.Summary, nil)
}
