package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/atikulmunna/logdash/internal/output"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List uploaded log files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		d := newDashboard()
		if err := d.Reload(ctx); err != nil {
			return err
		}
		if jsonOutput() {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(d.Store().Files())
		}
		return output.WriteFiles(cmd.OutOrStdout(), d.Store().Files())
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a log file to the backend",
	Long: `Send a local log file to the backend as a new, pending log file.

Example:
  logdash upload /var/log/app.log`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		created, err := newDashboard().Upload(ctx, filepath.Base(args[0]), content)
		if err != nil && created.ID == 0 {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s as log file %d (%d bytes)\n", created.Filename, created.ID, created.Size)
		return err
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file-id>",
	Short: "Run AI root-cause analysis on an uploaded log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid file id %q", args[0])
		}
		f, err := newDashboard().Analyze(ctx, id)
		if err != nil && f.ID == 0 {
			return err
		}
		if jsonOutput() {
			if jerr := json.NewEncoder(cmd.OutOrStdout()).Encode(f); jerr != nil {
				return jerr
			}
			return err
		}
		if f.AnalysisResult != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Analysis of %s:\n\n%s\n", f.Filename, *f.AnalysisResult)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(filesCmd, uploadCmd, analyzeCmd)
}
