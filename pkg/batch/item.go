package batch

import "context"

// Handler processes one payload item. index is the item's absolute position
// in the manager's item sequence.
type Handler[T, R any] func(ctx context.Context, item T, index int) (R, error)

// Item is one unit of work: either a payload for the default handler or a
// callable that produces its own result.
type Item[T, R any] struct {
	value T
	call  func(ctx context.Context) (R, error)
}

// Payload wraps a value that will be passed to the default handler
func Payload[T, R any](value T) Item[T, R] {
	return Item[T, R]{value: value}
}

// Payloads wraps every value with Payload
func Payloads[T, R any](values ...T) []Item[T, R] {
	items := make([]Item[T, R], len(values))
	for i, v := range values {
		items[i] = Payload[T, R](v)
	}
	return items
}

// Callable wraps a zero-argument function. The default handler is not used
// for callable items.
func Callable[T, R any](fn func(ctx context.Context) (R, error)) Item[T, R] {
	return Item[T, R]{call: fn}
}

// Value returns the payload. It is the zero value for callable items.
func (it Item[T, R]) Value() T {
	return it.value
}

// IsCallable reports whether the item produces its own result
func (it Item[T, R]) IsCallable() bool {
	return it.call != nil
}

// bind resolves the variant into the function that will be dispatched
func (it Item[T, R]) bind(handler Handler[T, R], index int) func(ctx context.Context) (R, error) {
	if it.call != nil {
		return it.call
	}
	return func(ctx context.Context) (R, error) {
		return handler(ctx, it.value, index)
	}
}
