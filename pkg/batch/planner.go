package batch

// planInput is the manager state the planner validates
type planInput struct {
	isSequence     bool
	numItems       int
	batchSize      int
	allowEmpty     bool
	startingIndex  int
	endingIndex    int
	hasEndingIndex bool
	maxIterations  int
}

// plan is the validated shape of one run
type plan struct {
	numItems      int
	start         int
	end           int
	batchSize     int
	maxIterations int
}

// planRun validates the input and computes the chunk boundaries.
// Checks run in a fixed order and the first failing one is reported.
func planRun(in planInput) (plan, error) {
	if !in.isSequence {
		return plan{}, configError(ReasonNotArray)
	}
	if in.batchSize <= 0 {
		return plan{}, configError(ReasonInvalidBatchSize)
	}
	if in.numItems == 0 && !in.allowEmpty {
		return plan{}, configError(ReasonNoItems)
	}
	if in.startingIndex < 0 || in.startingIndex > in.numItems {
		return plan{}, configError(ReasonStartOutOfRange)
	}
	if in.hasEndingIndex && in.endingIndex <= in.startingIndex {
		return plan{}, configError(ReasonInvalidEndingIndex)
	}

	end := in.numItems
	if in.hasEndingIndex {
		end = in.endingIndex
	}

	// negative caps are clamped to "uncapped"
	maxIterations := in.maxIterations
	if maxIterations < 0 {
		maxIterations = 0
	}

	return plan{
		numItems:      in.numItems,
		start:         in.startingIndex,
		end:           end,
		batchSize:     in.batchSize,
		maxIterations: maxIterations,
	}, nil
}

// chunkStarts lists the first index of every iteration the run may visit,
// before the iteration cap is applied
func (p plan) chunkStarts() []int {
	var starts []int
	for i := p.start; i < p.end; i += p.batchSize {
		starts = append(starts, i)
	}
	return starts
}

// bounds returns the half-open item range of the chunk starting at i,
// clamped to the sequence length. The range is empty past the last item.
func (p plan) bounds(i int) (lo, hi int) {
	lo = min(i, p.numItems)
	hi = min(i+p.batchSize, p.numItems)
	return lo, hi
}

// capped reports whether the run must stop after the given iteration count
func (p plan) capped(iterations int) bool {
	return p.maxIterations > 0 && iterations >= p.maxIterations
}
