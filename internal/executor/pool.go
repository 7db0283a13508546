package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task represents a unit of work to be executed by the pool
type Task[R any] struct {
	// Name identifies the task in logs and results
	Name string

	// Execute is the function to run for this task
	// Returns the result data and any error encountered
	Execute func(ctx context.Context) (R, error)
}

// Result represents the outcome of executing a task
type Result[R any] struct {
	// Name identifies which task this result is from
	Name string

	// Data contains the successful result data (zero value if error occurred)
	Data R

	// Error contains any error that occurred during execution (nil if successful)
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Pool fans a fixed set of tasks out to at most workers goroutines and
// fans their results back in, in submission order
type Pool[R any] struct {
	// workers is the maximum number of tasks in flight
	workers int

	// tasks is the queue of tasks to execute
	tasks []Task[R]

	// mu protects the tasks slice
	mu sync.Mutex

	// logger for structured logging
	logger *slog.Logger

	// running indicates if the pool is currently executing
	running atomic.Bool
}

// NewPool creates a new pool with the specified number of workers
// workers must be > 0, otherwise it defaults to 1
func NewPool[R any](workers int, logger *slog.Logger) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Pool[R]{
		workers: workers,
		tasks:   make([]Task[R], 0, workers),
		logger:  logger,
	}
}

// Submit adds a task to the pool's queue
// Returns an error if the pool is already running or the task is incomplete
func (p *Pool[R]) Submit(task Task[R]) error {
	if p.running.Load() {
		return fmt.Errorf("pool is running, cannot submit new tasks")
	}

	if task.Name == "" {
		return fmt.Errorf("task must have a name")
	}

	if task.Execute == nil {
		return fmt.Errorf("task must have an execute function")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tasks = append(p.tasks, task)

	return nil
}

// Execute runs all submitted tasks and waits for every one of them to settle
// Task errors are captured in the results and never cancel sibling tasks
// Results are returned in submission order
func (p *Pool[R]) Execute(ctx context.Context) []Result[R] {
	return p.ExecuteWithProgress(ctx, nil)
}

// ExecuteWithProgress runs all tasks with progress reporting
// The progressFn callback is called after each task completes with (completed, total) counts
func (p *Pool[R]) ExecuteWithProgress(ctx context.Context, progressFn func(completed, total int)) []Result[R] {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Error("pool is already running")
		return []Result[R]{}
	}
	defer p.running.Store(false)

	p.mu.Lock()
	tasks := make([]Task[R], len(p.tasks))
	copy(tasks, p.tasks)
	p.mu.Unlock()

	total := len(tasks)
	if total == 0 {
		p.logger.Debug("no tasks to execute")
		return []Result[R]{}
	}

	results := make([]Result[R], total)
	var completed atomic.Int32

	// Plain group, not WithContext: a failed task must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			results[i] = p.executeTask(ctx, task)

			done := completed.Add(1)
			if progressFn != nil {
				progressFn(int(done), total)
			}
			return nil
		})
	}

	_ = g.Wait()

	p.logger.Debug("tasks settled",
		"total", total,
		"successful", CountSuccessful(results),
		"failed", CountFailed(results))

	return results
}

// executeTask executes a single task and returns the result
func (p *Pool[R]) executeTask(ctx context.Context, task Task[R]) (result Result[R]) {
	startTime := time.Now()
	result.Name = task.Name

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("panic: %v", r)
			result.Duration = time.Since(startTime)
			p.logger.Warn("task panicked", "task", task.Name, "panic", r)
		}
	}()

	// Check context before execution
	select {
	case <-ctx.Done():
		result.Error = fmt.Errorf("task cancelled before execution: %w", ctx.Err())
		result.Duration = time.Since(startTime)
		return result
	default:
	}

	data, err := task.Execute(ctx)

	result.Data = data
	result.Error = err
	result.Duration = time.Since(startTime)

	if err != nil {
		p.logger.Debug("task failed",
			"task", task.Name,
			"error", err,
			"duration", result.Duration)
	}

	return result
}

// TaskCount returns the number of tasks currently queued
func (p *Pool[R]) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// WorkerCount returns the maximum number of tasks in flight
func (p *Pool[R]) WorkerCount() int {
	return p.workers
}
