package batch

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Config holds the constructor settings of a Manager
type Config[T, R any] struct {
	// BatchItems is the initial ordered item sequence
	BatchItems []Item[T, R]

	// BatchSize is the chunk size; it must be positive
	BatchSize int

	// StopOnFailure marks every later chunk unsent once a chunk has a failure
	StopOnFailure bool

	// AllowEmpty permits running with no items
	AllowEmpty bool

	// StartingIndex is the resume offset
	StartingIndex int

	// MaxIterations caps the number of chunk iterations per run. 0 and
	// negative values mean no cap.
	MaxIterations int

	// DefaultHandler is used for every item that is not callable
	DefaultHandler Handler[T, R]
}

// ChunkReport describes one finished iteration of a run
type ChunkReport struct {
	Iteration      int
	Start          int
	End            int
	Succeeded      int
	Failed         int
	Unsent         int
	ShortCircuited bool
	Duration       time.Duration
}

// Option configures ambient behaviour of a Manager
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer func(ChunkReport)
}

// WithLogger sets the logger used for run progress
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithChunkObserver registers a callback invoked after every iteration.
// The callback runs while the Manager's lock is held, so it must not call
// back into the Manager (MostRecentResult, HasFailed and the like block
// until Run returns).
func WithChunkObserver(fn func(ChunkReport)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Manager runs an item sequence chunk by chunk and keeps the history of its
// runs. All methods serialize on one lock, so at most one run is in flight.
type Manager[T, R any] struct {
	mu sync.Mutex

	items          []Item[T, R]
	batchSize      int
	stopOnFailure  bool
	allowEmpty     bool
	startingIndex  int
	endingIndex    int
	hasEndingIndex bool
	maxIterations  int
	handler        Handler[T, R]

	history []BatchResults[T, R]

	logger   *slog.Logger
	observer func(ChunkReport)
}

// New creates a Manager. It fails with a ConfigError when no default handler
// is given; every other setting is validated when Run is called.
func New[T, R any](cfg Config[T, R], opts ...Option) (*Manager[T, R], error) {
	if cfg.DefaultHandler == nil {
		return nil, configError(ReasonHandlerRequired)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	m := &Manager[T, R]{
		items:         slices.Clone(cfg.BatchItems),
		batchSize:     cfg.BatchSize,
		stopOnFailure: cfg.StopOnFailure,
		allowEmpty:    cfg.AllowEmpty,
		maxIterations: cfg.MaxIterations,
		handler:       cfg.DefaultHandler,
		logger:        o.logger,
		observer:      o.observer,
	}

	if cfg.StartingIndex > 0 {
		m.startingIndex = cfg.StartingIndex
	}

	return m, nil
}

// Load appends items to the sequence
func (m *Manager[T, R]) Load(items ...Item[T, R]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.items == nil {
		m.items = make([]Item[T, R], 0, len(items))
	}
	m.items = append(m.items, items...)
}

// SetStartingIndex sets the offset the next run resumes from
func (m *Manager[T, R]) SetStartingIndex(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.startingIndex = index
}

// SetEndingIndex sets an explicit exclusive bound for chunk starts. It must
// be greater than the starting index when the next run begins.
func (m *Manager[T, R]) SetEndingIndex(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.endingIndex = index
	m.hasEndingIndex = true
}

// Run validates the configuration, executes the chunks and records the
// snapshot in the history. Handler failures never make Run fail; only
// configuration problems do.
func (m *Manager[T, R]) Run(ctx context.Context) (BatchResults[T, R], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug("validating batch run",
		"items", len(m.items),
		"batch_size", m.batchSize,
		"starting_index", m.startingIndex)

	p, err := planRun(planInput{
		isSequence:     m.items != nil,
		numItems:       len(m.items),
		batchSize:      m.batchSize,
		allowEmpty:     m.allowEmpty,
		startingIndex:  m.startingIndex,
		endingIndex:    m.endingIndex,
		hasEndingIndex: m.hasEndingIndex,
		maxIterations:  m.maxIterations,
	})
	if err != nil {
		return BatchResults[T, R]{}, err
	}
	m.logger.Debug("planned batch run", "chunk_starts", p.chunkStarts())

	results := m.execute(ctx, p)
	m.history = append(m.history, results)

	m.logger.Info("batch run completed",
		"num_items", results.NumItems,
		"starting_index", results.StartingIndex,
		"total_success", results.TotalSuccess,
		"total_failed", results.TotalFailed,
		"total_unsent", results.TotalUnsent)

	return results, nil
}

func (m *Manager[T, R]) execute(ctx context.Context, p plan) BatchResults[T, R] {
	results := newResults[T, R](p.numItems, p.start, p.batchSize, m.stopOnFailure)
	if p.numItems == 0 {
		return results
	}

	shortCircuit := false
	iterations := 0

	for i := p.start; i < p.end; i += p.batchSize {
		iterations++
		started := time.Now()
		lo, hi := p.bounds(i)
		report := ChunkReport{Iteration: iterations, Start: lo, End: hi}

		switch {
		case shortCircuit:
			unsent := m.markUnsent(lo, hi)
			if len(unsent) > 0 {
				results.TotalUnsent += len(unsent)
				results.Unsent = append(results.Unsent, unsent)
			}
			report.Unsent = len(unsent)
			report.ShortCircuited = true

		case lo < hi:
			m.logger.Debug("executing chunk", "iteration", iterations, "chunk_start", lo, "chunk_end", hi)

			succeeded, failed, err := m.runChunk(ctx, lo, hi)
			if err != nil {
				m.logger.Warn("failed to assemble chunk results, continuing",
					"chunk_start", lo,
					"chunk_end", hi,
					"error", err)
				break
			}

			if len(succeeded) > 0 {
				results.TotalSuccess += len(succeeded)
				results.Success = append(results.Success, succeeded)
			}
			if len(failed) > 0 {
				results.TotalFailed += len(failed)
				results.Failed = append(results.Failed, failed)
			}
			report.Succeeded = len(succeeded)
			report.Failed = len(failed)

			if len(failed) > 0 && m.stopOnFailure {
				shortCircuit = true
				m.logger.Debug("short-circuiting remaining chunks",
					"chunk_start", lo,
					"failed", len(failed))
			}
		}

		report.Duration = time.Since(started)
		if m.observer != nil {
			m.observer(report)
		}

		if p.capped(iterations) {
			m.logger.Debug("iteration cap reached", "iterations", iterations)
			break
		}
	}

	return results
}

// MostRecentResult returns the snapshot of the last completed run
func (m *Manager[T, R]) MostRecentResult() (BatchResults[T, R], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mostRecent()
}

func (m *Manager[T, R]) mostRecent() (BatchResults[T, R], bool) {
	if len(m.history) == 0 {
		return BatchResults[T, R]{}, false
	}
	return m.history[len(m.history)-1], true
}

// AllResults returns the snapshots of all completed runs, oldest first
func (m *Manager[T, R]) AllResults() []BatchResults[T, R] {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.history)
}

// SuccessValues returns the handler results of the most recent run
func (m *Manager[T, R]) SuccessValues() []R {
	r, _ := m.MostRecentResult()
	return SuccessValues(r)
}

// FailedValues returns the error messages of the most recent run
func (m *Manager[T, R]) FailedValues() []string {
	r, _ := m.MostRecentResult()
	return FailedValues(r)
}

// UnsentValues returns the responses of the unsent items of the most recent run
func (m *Manager[T, R]) UnsentValues() []R {
	r, _ := m.MostRecentResult()
	return UnsentValues(r)
}

// UnsentItems returns the payloads the most recent run did not send
func (m *Manager[T, R]) UnsentItems() []T {
	r, _ := m.MostRecentResult()
	return UnsentItems(r)
}

// HasFailed reports whether the most recent run had any failed item.
// It is false when no run has completed.
func (m *Manager[T, R]) HasFailed() bool {
	r, ok := m.MostRecentResult()
	return ok && r.TotalFailed > 0
}
