package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atikulmunna/logdash/internal/output"
	"github.com/atikulmunna/logdash/internal/paginate"
	"github.com/atikulmunna/logdash/internal/parser"
	"github.com/spf13/cobra"
)

var (
	parsePattern string
	parseVerbose bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Preview how a local log file parses",
	Long: `Parse a local file line by line and print the resulting entries without
contacting the backend. Blank or undecodable lines are skipped and counted.

Example:
  logdash parse app.log --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		p, err := lineParser(parsePattern)
		if err != nil {
			return err
		}

		entries, skipped := parser.ParseContent(p, string(content), 0)
		if parseVerbose {
			for _, e := range skipped {
				fmt.Fprintln(cmd.ErrOrStderr(), e)
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d entries parsed, %d lines skipped\n", len(entries), len(skipped))

		if jsonOutput() {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		return output.WriteEntries(cmd.OutOrStdout(), paginate.Paginate(entries, 1, max(1, len(entries))), "", nil)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parsePattern, "pattern", "", "regex with named groups (timestamp, level, message, source, function, line)")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "list every skipped line")
	rootCmd.AddCommand(parseCmd)
}
