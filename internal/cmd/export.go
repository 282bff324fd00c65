package cmd

import (
	"fmt"
	"os"

	"github.com/atikulmunna/logdash/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportView   viewFlags
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered log entries as CSV or JSON",
	Long: `Write every entry matching the filter, in sort order, to a file named
log_entries.csv or log_entries.json (or --out; "-" writes to stdout).

Examples:
  logdash export --level ERROR
  logdash export --format json --source api --out api.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportView.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default log_entries.<format>)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	f, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	d := newDashboard()
	if err := d.Reload(ctx); err != nil {
		return err
	}
	if err := exportView.apply(d); err != nil {
		return err
	}

	data, name, err := d.ExportFiltered(f)
	if err != nil {
		return err
	}

	if exportOut == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if exportOut != "" {
		name = exportOut
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported %d bytes to %s\n", len(data), name)
	return nil
}
