// Package batch runs an ordered sequence of work items in fixed-size chunks.
//
// Chunks run strictly one after another; the items inside a chunk are
// dispatched concurrently, so at most BatchSize handler calls are in flight.
// Every dispatched item ends up as a success or a failure in the run's
// BatchResults, keyed by its absolute index in the sequence.
//
// # Basic Usage
//
//	mgr, err := batch.New(batch.Config[string, int]{
//	    BatchItems: batch.Payloads[string, int]("a", "bb", "ccc"),
//	    BatchSize:  2,
//	    DefaultHandler: func(ctx context.Context, item string, index int) (int, error) {
//	        return len(item), nil
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//
//	results, err := mgr.Run(ctx)
//
// # Failure Handling
//
// Handler errors are recorded per item and never returned by Run. With
// StopOnFailure, the first chunk that contains a failure raises a latch and
// every later chunk is recorded as unsent without being dispatched.
//
// # Resuming And Capping
//
// SetStartingIndex resumes from any offset. MaxIterations stops the run after
// that many chunk iterations; items past the last iteration are left out of
// the results entirely, not marked unsent.
//
// # Combining Runs
//
// Combine merges snapshots from sequential runs (SameProcess) or from
// disjoint shards. IndexExceedsItems and HasFinished let a poller that only
// holds a snapshot decide whether a distributed batch has finished.
package batch
