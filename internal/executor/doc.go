// Package executor provides the fan-out/fan-in primitive used to dispatch one
// chunk of batch items concurrently.
//
// A Pool is filled with tasks, then Execute starts all of them (at most
// WorkerCount at a time) and blocks until every task has settled. Task
// errors and panics are captured per result and never cancel siblings.
//
// # Basic Usage
//
//	pool := executor.NewPool[string](len(items), logger)
//
//	for i, item := range items {
//	    pool.Submit(executor.Task[string]{
//	        Name: fmt.Sprintf("item-%d", i),
//	        Execute: func(ctx context.Context) (string, error) {
//	            return process(ctx, item)
//	        },
//	    })
//	}
//
//	results := pool.Execute(ctx)
//
// # Ordering
//
// Results are returned in submission order regardless of completion order,
// so results[i] always belongs to the i-th submitted task.
//
// # Context Cancellation
//
// The context is passed to every task. A task that has not started when the
// context is done is not executed; its result carries the context error.
package executor
