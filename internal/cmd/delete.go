package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id...>",
	Short: "Delete log entries",
	Long: `Delete entries by id. Every deletion is attempted; the outcome of each
is reported and the command fails if any of them failed.

Example:
  logdash delete 12 13 14`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		ids := make([]int64, 0, len(args))
		for _, a := range args {
			id, err := strconv.ParseInt(a, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry id %q", a)
			}
			ids = append(ids, id)
		}

		d := newDashboard()
		d.Selection().SelectAll(ids)
		res, err := d.DeleteSelected(ctx)

		out := cmd.OutOrStdout()
		for _, r := range res.Results {
			if r.Err != nil {
				fmt.Fprintf(out, "entry %d: failed: %v\n", r.ID, r.Err)
				continue
			}
			fmt.Fprintf(out, "entry %d: deleted\n", r.ID)
		}
		if len(res.Results) > 0 {
			fmt.Fprintf(out, "%d deleted, %d failed\n", len(res.Succeeded()), len(res.Failed()))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
