package batch

// IndexExceedsItems reports whether index polling ticks give enough chunk
// capacity to have covered every item. The first chunk counts as an
// always-consumed baseline and each unit of index adds one chunk; when the
// item count does not divide evenly one extra chunk is allowed for the short
// final chunk. External pollers rely on these exact boundaries.
func IndexExceedsItems[T, R any](results BatchResults[T, R], index int) bool {
	numItems, batchSize := results.NumItems, results.BatchSize
	if batchSize <= 0 {
		return numItems <= 0
	}

	if numItems%batchSize > 0 {
		return numItems <= batchSize+batchSize*(index+1)
	}
	return numItems <= batchSize+batchSize*index
}

// HasFinished reports whether a batch is necessarily complete, judged only
// from the snapshot and a monotonically increasing poll index
func HasFinished[T, R any](results *BatchResults[T, R], index int) (bool, error) {
	if results == nil {
		return false, &ArgumentError{Argument: "results", Message: "results have not been provided"}
	}

	if IndexExceedsItems(*results, index) {
		return true, nil
	}
	if results.NumItems == 0 {
		return true, nil
	}

	return results.Covered() >= results.NumItems, nil
}
