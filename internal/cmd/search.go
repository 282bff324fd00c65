package cmd

import (
	"encoding/json"
	"strings"

	"github.com/atikulmunna/logdash/internal/output"
	"github.com/spf13/cobra"
)

var (
	searchTopK      int
	searchThreshold float64
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search past incidents similar to a query",
	Long: `Query the backend's vector index for previously analyzed incidents.

Example:
  logdash search connection refused --top-k 10 --threshold 0.8`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		res, err := newDashboard().Search(ctx, strings.Join(args, " "), searchTopK, searchThreshold)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
		}
		return output.WriteIncidents(cmd.OutOrStdout(), res)
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum results (default from config, 5)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "minimum similarity 0-1 (default from config, 0.7)")
	rootCmd.AddCommand(searchCmd)
}
