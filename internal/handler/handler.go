package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aryankumar/chunkrun/internal/cluster"
	"github.com/aryankumar/chunkrun/internal/config"
	"github.com/aryankumar/chunkrun/internal/filestore"
	"github.com/aryankumar/chunkrun/internal/util"
	"github.com/aryankumar/chunkrun/pkg/batch"
)

// Func is the handler shape the CLI runs: items and responses are whatever
// the item document decodes to
type Func = batch.Handler[any, any]

// Deps carries the collaborators some handlers need
type Deps struct {
	// Store backs the file handler
	Store *filestore.Store

	// Cluster backs the kube handler
	Cluster *cluster.Client

	Logger *slog.Logger
}

// New returns the handler named by cfg.Name
func New(cfg config.HandlerConfig, deps Deps) (Func, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Name {
	case "echo":
		return Echo(cfg.FailOn), nil
	case "exec":
		if cfg.Command == "" {
			return nil, util.NewValidationError("handler.command", nil, "required by the exec handler")
		}
		return Exec(cfg.Command, logger), nil
	case "file":
		if deps.Store == nil {
			return nil, fmt.Errorf("file handler requires a file store")
		}
		return File(deps.Store, cfg.JobID, cfg.NodeID), nil
	case "kube":
		if deps.Cluster == nil {
			return nil, fmt.Errorf("kube handler requires a cluster client")
		}
		return Kube(deps.Cluster), nil
	default:
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownHandler, cfg.Name)
	}
}

// ItemString renders an item the way handlers see it: strings as-is,
// scalars via fmt, and everything else as compact JSON
func ItemString(item any) string {
	switch v := item.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v)
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Sprint(item)
	}
	return string(data)
}
