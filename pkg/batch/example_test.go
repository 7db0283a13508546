package batch_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/chunkrun/pkg/batch"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Example runs ten items two at a time, resuming at index 2 and stopping
// after the first failed chunk
func Example() {
	values := make([]int, 10)
	for i := range values {
		values[i] = i
	}

	mgr, err := batch.New(batch.Config[int, int]{
		BatchItems:    batch.Payloads[int, int](values...),
		BatchSize:     2,
		StartingIndex: 2,
		StopOnFailure: true,
		DefaultHandler: func(ctx context.Context, item int, index int) (int, error) {
			if item == 7 {
				return 0, fmt.Errorf("cannot allow %d", item)
			}
			return item * item, nil
		},
	}, batch.WithLogger(quietLogger()))
	if err != nil {
		fmt.Println(err)
		return
	}

	results, err := mgr.Run(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("success:", results.TotalSuccess, mgr.SuccessValues())
	fmt.Println("failed:", results.TotalFailed, mgr.FailedValues())
	fmt.Println("unsent:", results.TotalUnsent, mgr.UnsentItems())

	// Output:
	// success: 5 [4 9 16 25 36]
	// failed: 1 [cannot allow 7]
	// unsent: 2 [8 9]
}

// ExampleCombine merges two shards processed by separate workers and polls
// the merged snapshot for completion
func ExampleCombine() {
	handler := func(ctx context.Context, item string, index int) (string, error) {
		return item + "!", nil
	}

	var shards []batch.BatchResults[string, string]
	for _, items := range [][]string{{"a", "b", "c"}, {"d", "e"}} {
		mgr, _ := batch.New(batch.Config[string, string]{
			BatchItems:     batch.Payloads[string, string](items...),
			BatchSize:      2,
			DefaultHandler: handler,
		}, batch.WithLogger(quietLogger()))

		r, _ := mgr.Run(context.Background())
		shards = append(shards, r)
	}

	combined := batch.Combine(shards, batch.CombineOptions{BatchSize: 2})
	finished, _ := batch.HasFinished(&combined, 0)

	fmt.Println(combined.NumItems, combined.TotalSuccess, len(combined.Success))
	fmt.Println(batch.SuccessValues(combined))
	fmt.Println("finished:", finished)

	// Output:
	// 5 5 3
	// [a! b! c! d! e!]
	// finished: true
}

// ExampleCallable mixes payload items with items that carry their own work
func ExampleCallable() {
	items := []batch.Item[string, int]{
		batch.Payload[string, int]("four"),
		batch.Callable[string, int](func(ctx context.Context) (int, error) {
			return 42, nil
		}),
	}

	mgr, _ := batch.New(batch.Config[string, int]{
		BatchItems: items,
		BatchSize:  2,
		DefaultHandler: func(ctx context.Context, item string, index int) (int, error) {
			return len(item), nil
		},
	}, batch.WithLogger(quietLogger()))

	mgr.Run(context.Background())
	fmt.Println(mgr.SuccessValues())

	// Output:
	// [4 42]
}
