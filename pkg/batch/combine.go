package batch

// CombineOptions describes the combined snapshot
type CombineOptions struct {
	StartingIndex int
	BatchSize     int
	StopOnFailure bool

	// SameProcess means every entry describes the same item set (sequential
	// resumed runs), so NumItems is taken from the last entry. Otherwise the
	// entries are disjoint shards and NumItems is summed.
	SameProcess bool
}

// Combine merges snapshots in input order. Chunk groups are concatenated,
// never flattened, and totals are summed.
func Combine[T, R any](results []BatchResults[T, R], opts CombineOptions) BatchResults[T, R] {
	combined := newResults[T, R](0, opts.StartingIndex, opts.BatchSize, opts.StopOnFailure)

	for _, r := range results {
		if opts.SameProcess {
			combined.NumItems = r.NumItems
		} else {
			combined.NumItems += r.NumItems
		}

		combined.TotalSuccess += r.TotalSuccess
		combined.TotalFailed += r.TotalFailed
		combined.TotalUnsent += r.TotalUnsent

		combined.Success = append(combined.Success, r.Success...)
		combined.Failed = append(combined.Failed, r.Failed...)
		combined.Unsent = append(combined.Unsent, r.Unsent...)
	}

	return combined
}
