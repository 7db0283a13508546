package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aryankumar/chunkrun/internal/cluster"
	"github.com/aryankumar/chunkrun/internal/config"
	"github.com/aryankumar/chunkrun/internal/filestore"
	"github.com/aryankumar/chunkrun/internal/handler"
	"github.com/aryankumar/chunkrun/internal/output"
	"github.com/aryankumar/chunkrun/internal/store"
	"github.com/aryankumar/chunkrun/internal/util"
	"github.com/aryankumar/chunkrun/pkg/batch"
)

// runBindings maps run flags onto configuration keys
var runBindings = map[string]string{
	"batch-size":      "batch.batchSize",
	"stop-on-failure": "batch.stopOnFailure",
	"allow-empty":     "batch.allowEmpty",
	"starting-index":  "batch.startingIndex",
	"ending-index":    "batch.endingIndex",
	"max-iterations":  "batch.maxIterations",
	"handler":         "handler.name",
	"command":         "handler.command",
	"fail-on":         "handler.failOn",
	"job-id":          "handler.jobId",
	"node-id":         "handler.nodeId",
	"context":         "handler.context",
}

// newKubeClient connects the kube handler; tests replace it with a fake clientset
var newKubeClient = func(ctx context.Context, kubeconfig, contextName string, logger *slog.Logger) (*cluster.Client, error) {
	loader := config.NewKubeconfigLoader(kubeconfig)

	resolved, err := loader.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}

	restConfig, err := loader.RESTConfig(resolved)
	if err != nil {
		return nil, err
	}

	return cluster.NewClient(ctx, resolved, restConfig, logger)
}

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an item list in chunks",
		Long: `Run loads a YAML or JSON list of items and runs it through a handler,
one chunk at a time with the items of each chunk in parallel.

Handlers:
  echo   return each item unchanged; --fail-on rejects listed values
  exec   run --command through sh -c with CHUNKRUN_ITEM and CHUNKRUN_INDEX set
  file   store each item under <tempDir>/<jobId>/<nodeId>/item-<index>.txt
  kube   look up each item as a namespace and return its phase

The command exits non-zero when any item failed.`,
		Example: `  # Resume at item 20, ten at a time, stopping at the first failed chunk
  chunkrun run --items items.yaml --batch-size 10 --starting-index 20 --stop-on-failure

  # Run a shell command per item and keep the results for later combining
  chunkrun run --items hosts.json --handler exec --command 'ping -c1 "$CHUNKRUN_ITEM"' --save shard-1.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd)
		},
	}

	cmd.Flags().String("items", "", "YAML or JSON file holding the item list (required)")
	cmd.Flags().String("handler", "echo", "item handler (echo, exec, file, kube)")
	cmd.Flags().Int("batch-size", 10, "number of items per chunk")
	cmd.Flags().Bool("stop-on-failure", false, "mark remaining chunks unsent after the first failed chunk")
	cmd.Flags().Bool("allow-empty", false, "accept an empty item list")
	cmd.Flags().Int("starting-index", 0, "index of the first item to run")
	cmd.Flags().Int("ending-index", 0, "exclusive bound for chunk starts")
	cmd.Flags().Int("max-iterations", 0, "maximum number of chunks (0 means no limit)")
	cmd.Flags().StringSlice("fail-on", nil, "item values the echo handler rejects")
	cmd.Flags().String("command", "", "shell command for the exec handler")
	cmd.Flags().String("job-id", "", "job folder for the file handler (default is a new UUID)")
	cmd.Flags().String("node-id", "node", "node folder for the file handler")
	cmd.Flags().String("context", "", "kubeconfig context for the kube handler")
	cmd.Flags().String("save", "", "write the results document to this file")

	_ = cmd.MarkFlagRequired("items")

	return cmd
}

func runRun(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()

	cfg, err := loadJobConfig(cmd, runBindings)
	if err != nil {
		return err
	}

	itemsPath, _ := cmd.Flags().GetString("items")
	items, err := store.LoadItems(appFs, itemsPath)
	if err != nil {
		return err
	}

	if cfg.Defaults.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Defaults.Timeout)
		defer cancel()
	}

	h, err := buildHandler(ctx, cmd, cfg, logger)
	if err != nil {
		return err
	}

	mgr, err := batch.New(batch.Config[any, any]{
		BatchItems:     batch.Payloads[any, any](items...),
		BatchSize:      cfg.Batch.BatchSize,
		StopOnFailure:  cfg.Batch.StopOnFailure,
		AllowEmpty:     cfg.Batch.AllowEmpty,
		StartingIndex:  cfg.Batch.StartingIndex,
		MaxIterations:  cfg.Batch.MaxIterations,
		DefaultHandler: h,
	},
		batch.WithLogger(logger),
		batch.WithChunkObserver(func(r batch.ChunkReport) {
			logger.Debug("chunk finished",
				"iteration", r.Iteration,
				"chunk_start", r.Start,
				"chunk_end", r.End,
				"succeeded", r.Succeeded,
				"failed", r.Failed,
				"unsent", r.Unsent,
				"duration", r.Duration)
		}),
	)
	if err != nil {
		return err
	}

	if cfg.Batch.EndingIndex > 0 || cmd.Flags().Changed("ending-index") {
		mgr.SetEndingIndex(cfg.Batch.EndingIndex)
	}

	logger.Debug("starting run",
		"items", len(items),
		"handler", cfg.Handler.Name,
		"batch_size", cfg.Batch.BatchSize,
		"starting_index", cfg.Batch.StartingIndex)

	results, err := mgr.Run(ctx)
	if err != nil {
		return err
	}

	if err := saveIfRequested(cmd, results); err != nil {
		return err
	}

	formatter := output.NewFormatter(
		output.ParseFormat(cfg.Defaults.OutputFormat),
		output.WithNoColor(cfg.Defaults.NoColor),
	)
	if err := formatter.FormatResults(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if mgr.HasFailed() {
		return fmt.Errorf("%w: %d of %d items failed", util.ErrRunFailed, results.TotalFailed, results.NumItems)
	}
	return nil
}

// buildHandler wires the configured handler to its collaborators
func buildHandler(ctx context.Context, cmd *cobra.Command, cfg *config.JobConfig, logger *slog.Logger) (handler.Func, error) {
	deps := handler.Deps{Logger: logger}
	hcfg := cfg.Handler

	switch hcfg.Name {
	case "file":
		if hcfg.JobID == "" {
			hcfg.JobID = uuid.NewString()
		}
		deps.Store = filestore.New(appFs, cfg.Storage.TempDir, cfg.Storage.RepositoriesDir, logger)
		logger.Info("storing items", "path", deps.Store.File(hcfg.JobID, hcfg.NodeID, "").NodePath())

	case "kube":
		kubeconfig, _ := cmd.Flags().GetString("kubeconfig")
		client, err := newKubeClient(ctx, kubeconfig, hcfg.Context, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to cluster: %w", err)
		}
		if err := client.HealthCheck(ctx); err != nil {
			return nil, fmt.Errorf("cluster %s is not reachable: %w", client.Context, err)
		}
		deps.Cluster = client
	}

	return handler.New(hcfg, deps)
}

// saveIfRequested writes results to the --save path, if one was given
func saveIfRequested(cmd *cobra.Command, results store.Results) error {
	path, _ := cmd.Flags().GetString("save")
	if path == "" {
		return nil
	}

	if err := store.SaveResults(appFs, path, results); err != nil {
		return err
	}
	slog.Debug("saved results", "path", path)
	return nil
}
