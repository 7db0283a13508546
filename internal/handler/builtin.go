package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aryankumar/chunkrun/internal/cluster"
	"github.com/aryankumar/chunkrun/internal/filestore"
)

// Echo returns every item unchanged, failing those listed in failOn
func Echo(failOn []string) Func {
	reject := make(map[string]struct{}, len(failOn))
	for _, v := range failOn {
		reject[v] = struct{}{}
	}

	return func(ctx context.Context, item any, index int) (any, error) {
		s := ItemString(item)
		if _, ok := reject[s]; ok {
			return nil, fmt.Errorf("cannot accept %s", s)
		}
		return item, nil
	}
}

// Exec runs command through sh -c once per item. The item and its index are
// exported as CHUNKRUN_ITEM and CHUNKRUN_INDEX; the trimmed stdout is the response.
func Exec(command string, logger *slog.Logger) Func {
	return func(ctx context.Context, item any, index int) (any, error) {
		var stdout, stderr bytes.Buffer

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Env = append(os.Environ(),
			"CHUNKRUN_ITEM="+ItemString(item),
			"CHUNKRUN_INDEX="+strconv.Itoa(index),
		)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		logger.Debug("running item command", "index", index, "command", command)

		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("command failed: %w: %s", err, msg)
			}
			return nil, fmt.Errorf("command failed: %w", err)
		}

		return strings.TrimSpace(stdout.String()), nil
	}
}

// File writes each item to <tempDir>/<jobID>/<nodeID>/item-<index>.txt and
// responds with the stored file's metadata
func File(store *filestore.Store, jobID, nodeID string) Func {
	return func(ctx context.Context, item any, index int) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f := store.File(jobID, nodeID, fmt.Sprintf("item-%d.txt", index))
		meta, err := f.Write([]byte(ItemString(item)))
		if err != nil {
			return nil, err
		}
		return meta, nil
	}
}

// Kube treats each item as a namespace name and responds with its phase
func Kube(client *cluster.Client) Func {
	return func(ctx context.Context, item any, index int) (any, error) {
		name, ok := item.(string)
		if !ok || name == "" {
			return nil, errors.New("namespace name must be a non-empty string")
		}
		return client.NamespacePhase(ctx, name)
	}
}
