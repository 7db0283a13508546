package cli

import (
	"github.com/spf13/cobra"

	"github.com/aryankumar/chunkrun/internal/output"
	"github.com/aryankumar/chunkrun/internal/store"
	"github.com/aryankumar/chunkrun/pkg/batch"
)

// Status values printed by the status command
const (
	statusFinished   = "finished"
	statusInProgress = "in progress"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status FILE",
		Short: "Report whether a batch has finished",
		Long: `Status reads a results document and reports "finished" when the batch is
necessarily complete, judged from the document and a poll index that the
caller increases by one on every poll.`,
		Example: `  chunkrun status combined.json --index 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args[0])
		},
	}

	cmd.Flags().Int("index", 0, "poll index")

	return cmd
}

func runStatus(cmd *cobra.Command, path string) error {
	cfg, err := loadJobConfig(cmd, nil)
	if err != nil {
		return err
	}

	results, err := store.LoadResults(appFs, path)
	if err != nil {
		return err
	}

	index, _ := cmd.Flags().GetInt("index")
	finished, err := batch.HasFinished(&results, index)
	if err != nil {
		return err
	}

	format := output.ParseFormat(cfg.Defaults.OutputFormat)
	formatter := output.NewFormatter(format, output.WithNoColor(cfg.Defaults.NoColor))

	if format == output.FormatTable {
		status := statusInProgress
		if finished {
			status = statusFinished
		}
		return formatter.Format(cmd.OutOrStdout(), status)
	}

	return formatter.Format(cmd.OutOrStdout(), map[string]interface{}{
		"index":    index,
		"finished": finished,
		"numItems": results.NumItems,
		"covered":  results.Covered(),
	})
}
