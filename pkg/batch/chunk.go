package batch

import (
	"context"
	"fmt"

	"github.com/aryankumar/chunkrun/internal/executor"
)

// runChunk dispatches items [lo, hi) concurrently and partitions the settled
// outcomes. Handler errors become failed responses; only a problem building
// the chunk itself is returned as an error.
func (m *Manager[T, R]) runChunk(ctx context.Context, lo, hi int) (succeeded, failed ChunkGroup[T, R], err error) {
	defer func() {
		if r := recover(); r != nil {
			succeeded, failed = nil, nil
			err = fmt.Errorf("chunk [%d, %d): %v", lo, hi, r)
		}
	}()

	pool := executor.NewPool[R](hi-lo, m.logger)
	for idx := lo; idx < hi; idx++ {
		task := executor.Task[R]{
			Name:    fmt.Sprintf("item-%d", idx),
			Execute: m.items[idx].bind(m.handler, idx),
		}
		if err := pool.Submit(task); err != nil {
			return nil, nil, fmt.Errorf("submitting item %d: %w", idx, err)
		}
	}

	m.logger.Debug("dispatching chunk",
		"chunk_start", lo,
		"chunk_end", hi,
		"tasks", pool.TaskCount(),
		"workers", pool.WorkerCount())

	settled := pool.Execute(ctx)
	m.logger.Debug("chunk settled",
		"chunk_start", lo,
		"chunk_end", hi,
		"summary", executor.Summarize(settled).String())

	for offset, res := range settled {
		idx := lo + offset
		resp := BatchItemResponse[T, R]{
			Index:     idx,
			BatchItem: m.items[idx].Value(),
		}

		if res.Error != nil {
			resp.Error = errorMessage(res.Error)
			failed = append(failed, resp)
			continue
		}

		resp.Response = res.Data
		resp.Success = true
		succeeded = append(succeeded, resp)
	}

	return succeeded, failed, nil
}

// markUnsent records items [lo, hi) as not dispatched, without side effects
func (m *Manager[T, R]) markUnsent(lo, hi int) ChunkGroup[T, R] {
	if lo >= hi {
		return nil
	}

	group := make(ChunkGroup[T, R], 0, hi-lo)
	for idx := lo; idx < hi; idx++ {
		group = append(group, BatchItemResponse[T, R]{
			Index:     idx,
			BatchItem: m.items[idx].Value(),
		})
	}
	return group
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "error"
}
