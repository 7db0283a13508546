package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aryankumar/chunkrun/internal/config"
)

var (
	cfgFile string

	// appFs backs item, result and file-handler storage; tests swap in a MemMapFs
	appFs = afero.NewOsFs()
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chunkrun",
		Short: "chunkrun - run item lists in sequential, concurrent chunks",
		Long: `chunkrun partitions a list of items into fixed-size chunks, runs the
items of each chunk concurrently through a handler, and records which items
succeeded, failed, or were never sent. Saved results from several runs can be
combined and polled for completion.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chunkrun.yaml)")
	rootCmd.PersistentFlags().String("kubeconfig", "", "path to kubeconfig file for the kube handler (default is $HOME/.kube/config)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Duration("timeout", 0, "deadline for a whole run (0 means none)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newCombineCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// persistentBindings maps root flags onto configuration keys
var persistentBindings = map[string]string{
	"output":   "defaults.outputFormat",
	"no-color": "defaults.noColor",
	"timeout":  "defaults.timeout",
}

// loadJobConfig loads the configuration file, environment and the command's
// flags, flags taking precedence
func loadJobConfig(cmd *cobra.Command, bindings map[string]string) (*config.JobConfig, error) {
	manager := config.NewManager(cfgFile)
	v := manager.Viper()

	bind := func(flagName, key string) error {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			return nil
		}
		return v.BindPFlag(key, flag)
	}

	for flagName, key := range persistentBindings {
		if err := bind(flagName, key); err != nil {
			return nil, err
		}
	}
	for flagName, key := range bindings {
		if err := bind(flagName, key); err != nil {
			return nil, err
		}
	}

	cfg, err := manager.Load()
	if err != nil {
		return nil, err
	}

	if used := manager.ConfigFileUsed(); used != "" {
		slog.Debug("loaded configuration", "file", used)
	}
	return cfg, nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}
