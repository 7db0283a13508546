package batch

// BatchItemResponse is the outcome for one item that was dispatched or
// marked unsent
type BatchItemResponse[T, R any] struct {
	// Index is the absolute position in the original item sequence
	Index int `json:"index" yaml:"index"`

	// BatchItem is the original payload (zero for callable items)
	BatchItem T `json:"batchItem" yaml:"batchItem"`

	// Response is the handler result. Zero for failed and unsent items.
	Response R `json:"response" yaml:"response"`

	// Error is the failure message of a failed item. It is kept apart from
	// Response, so saved failures carry "error: <message>" with a zero
	// response rather than the message in the response field.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	Success bool `json:"success" yaml:"success"`
}

// ChunkGroup holds the responses of one kind produced by one iteration
type ChunkGroup[T, R any] []BatchItemResponse[T, R]

// BatchResults is the snapshot produced by one run, or by Combine.
// Success, Failed and Unsent keep their chunk-group boundaries.
type BatchResults[T, R any] struct {
	NumItems      int  `json:"numItems" yaml:"numItems"`
	StartingIndex int  `json:"startingIndex" yaml:"startingIndex"`
	BatchSize     int  `json:"batchSize" yaml:"batchSize"`
	StopOnFailure bool `json:"stopOnFailure" yaml:"stopOnFailure"`

	TotalSuccess int `json:"totalSuccess" yaml:"totalSuccess"`
	TotalFailed  int `json:"totalFailed" yaml:"totalFailed"`
	TotalUnsent  int `json:"totalUnsent" yaml:"totalUnsent"`

	Success []ChunkGroup[T, R] `json:"success" yaml:"success"`
	Failed  []ChunkGroup[T, R] `json:"failed" yaml:"failed"`
	Unsent  []ChunkGroup[T, R] `json:"unsent" yaml:"unsent"`
}

// newResults returns the zeroed snapshot for a run or a combination
func newResults[T, R any](numItems, startingIndex, batchSize int, stopOnFailure bool) BatchResults[T, R] {
	return BatchResults[T, R]{
		NumItems:      numItems,
		StartingIndex: startingIndex,
		BatchSize:     batchSize,
		StopOnFailure: stopOnFailure,
		Success:       []ChunkGroup[T, R]{},
		Failed:        []ChunkGroup[T, R]{},
		Unsent:        []ChunkGroup[T, R]{},
	}
}

// Covered returns the number of items represented in the results
func (r BatchResults[T, R]) Covered() int {
	return r.TotalSuccess + r.TotalFailed + r.TotalUnsent
}

// Responses flattens groups in chunk-then-item order
func Responses[T, R any](groups []ChunkGroup[T, R]) []BatchItemResponse[T, R] {
	var flat []BatchItemResponse[T, R]
	for _, g := range groups {
		flat = append(flat, g...)
	}
	return flat
}

// SuccessValues returns the handler results of all successful items
func SuccessValues[T, R any](r BatchResults[T, R]) []R {
	values := make([]R, 0, r.TotalSuccess)
	for _, resp := range Responses(r.Success) {
		values = append(values, resp.Response)
	}
	return values
}

// FailedValues returns the error messages of all failed items
func FailedValues[T, R any](r BatchResults[T, R]) []string {
	values := make([]string, 0, r.TotalFailed)
	for _, resp := range Responses(r.Failed) {
		values = append(values, resp.Error)
	}
	return values
}

// UnsentValues returns the (always zero) responses of all unsent items,
// one per unsent item
func UnsentValues[T, R any](r BatchResults[T, R]) []R {
	values := make([]R, 0, r.TotalUnsent)
	for _, resp := range Responses(r.Unsent) {
		values = append(values, resp.Response)
	}
	return values
}

// UnsentItems returns the payloads of all unsent items, ready to be loaded
// into another run
func UnsentItems[T, R any](r BatchResults[T, R]) []T {
	items := make([]T, 0, r.TotalUnsent)
	for _, resp := range Responses(r.Unsent) {
		items = append(items, resp.BatchItem)
	}
	return items
}
