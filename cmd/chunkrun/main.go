package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/chunkrun/internal/cli"
	"github.com/aryankumar/chunkrun/internal/util"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler()

	if err := cli.Execute(ctx); err != nil {
		// Failed items are already in the rendered results.
		if !errors.Is(err, util.ErrRunFailed) {
			fmt.Fprintln(os.Stderr, util.FriendlyError(err))
		}
		slog.Debug("command failed", "error", err)
		os.Exit(1)
	}
}
