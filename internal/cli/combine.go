package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aryankumar/chunkrun/internal/output"
	"github.com/aryankumar/chunkrun/internal/store"
	"github.com/aryankumar/chunkrun/pkg/batch"
)

// newCombineCmd creates the combine command
func newCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine FILE...",
		Short: "Merge saved results documents",
		Long: `Combine merges results documents written by "run --save" in the order given.
Chunk groups are kept intact and totals are summed.

By default the documents are treated as disjoint shards and their item counts
are added. With --same-process they are treated as resumed runs over one item
list and the last document's item count is used.`,
		Example: `  chunkrun combine shard-1.json shard-2.json --save combined.json
  chunkrun combine part-a.yaml part-b.yaml --same-process -o yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(cmd, args)
		},
	}

	cmd.Flags().Bool("same-process", false, "documents describe the same item list")
	cmd.Flags().Int("starting-index", 0, "starting index recorded in the combined document")
	cmd.Flags().Int("batch-size", 0, "batch size recorded in the combined document (default is the first document's)")
	cmd.Flags().Bool("stop-on-failure", false, "stop-on-failure flag recorded in the combined document")
	cmd.Flags().String("save", "", "write the combined document to this file")

	return cmd
}

func runCombine(cmd *cobra.Command, paths []string) error {
	cfg, err := loadJobConfig(cmd, nil)
	if err != nil {
		return err
	}

	all, err := store.LoadAllResults(appFs, paths)
	if err != nil {
		return err
	}

	opts := batch.CombineOptions{}
	opts.SameProcess, _ = cmd.Flags().GetBool("same-process")
	opts.StartingIndex, _ = cmd.Flags().GetInt("starting-index")
	opts.BatchSize, _ = cmd.Flags().GetInt("batch-size")
	opts.StopOnFailure, _ = cmd.Flags().GetBool("stop-on-failure")

	if opts.BatchSize <= 0 && len(all) > 0 {
		opts.BatchSize = all[0].BatchSize
	}
	if opts.BatchSize <= 0 {
		return fmt.Errorf("cannot determine batch size, pass --batch-size")
	}

	combined := batch.Combine(all, opts)

	slog.Debug("combined results",
		"documents", len(all),
		"num_items", combined.NumItems,
		"total_success", combined.TotalSuccess,
		"total_failed", combined.TotalFailed,
		"total_unsent", combined.TotalUnsent)

	if err := saveIfRequested(cmd, combined); err != nil {
		return err
	}

	formatter := output.NewFormatter(
		output.ParseFormat(cfg.Defaults.OutputFormat),
		output.WithNoColor(cfg.Defaults.NoColor),
	)
	return formatter.FormatResults(cmd.OutOrStdout(), combined)
}
