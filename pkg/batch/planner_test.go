package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlanRun_Validation(t *testing.T) {
	valid := planInput{isSequence: true, numItems: 10, batchSize: 3}

	tests := []struct {
		name   string
		modify func(in *planInput)
		reason string
	}{
		{
			name:   "not a sequence",
			modify: func(in *planInput) { in.isSequence = false },
			reason: ReasonNotArray,
		},
		{
			name:   "zero batch size",
			modify: func(in *planInput) { in.batchSize = 0 },
			reason: ReasonInvalidBatchSize,
		},
		{
			name:   "negative batch size",
			modify: func(in *planInput) { in.batchSize = -2 },
			reason: ReasonInvalidBatchSize,
		},
		{
			name:   "empty without allowance",
			modify: func(in *planInput) { in.numItems = 0 },
			reason: ReasonNoItems,
		},
		{
			name:   "starting index past the end",
			modify: func(in *planInput) { in.startingIndex = 11 },
			reason: ReasonStartOutOfRange,
		},
		{
			name:   "negative starting index",
			modify: func(in *planInput) { in.startingIndex = -1 },
			reason: ReasonStartOutOfRange,
		},
		{
			name: "ending index equal to start",
			modify: func(in *planInput) {
				in.startingIndex = 4
				in.endingIndex = 4
				in.hasEndingIndex = true
			},
			reason: ReasonInvalidEndingIndex,
		},
		{
			name: "ending index before start",
			modify: func(in *planInput) {
				in.startingIndex = 4
				in.endingIndex = 2
				in.hasEndingIndex = true
			},
			reason: ReasonInvalidEndingIndex,
		},
		{
			name: "batch size checked before emptiness",
			modify: func(in *planInput) {
				in.numItems = 0
				in.batchSize = 0
			},
			reason: ReasonInvalidBatchSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)

			_, err := planRun(in)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, cfgErr.Reason)
			}
		})
	}
}

func TestPlanRun_Boundaries(t *testing.T) {
	tests := []struct {
		name       string
		in         planInput
		wantStarts []int
		wantEnd    int
	}{
		{
			name:       "defaults to sequence length",
			in:         planInput{isSequence: true, numItems: 10, batchSize: 3},
			wantStarts: []int{0, 3, 6, 9},
			wantEnd:    10,
		},
		{
			name:       "resumes from starting index",
			in:         planInput{isSequence: true, numItems: 10, batchSize: 2, startingIndex: 2},
			wantStarts: []int{2, 4, 6, 8},
			wantEnd:    10,
		},
		{
			name: "explicit ending index",
			in: planInput{
				isSequence: true, numItems: 10, batchSize: 4,
				endingIndex: 5, hasEndingIndex: true,
			},
			wantStarts: []int{0, 4},
			wantEnd:    5,
		},
		{
			name:       "starting index equal to length",
			in:         planInput{isSequence: true, numItems: 4, batchSize: 2, startingIndex: 4},
			wantStarts: nil,
			wantEnd:    4,
		},
		{
			name:       "empty allowed",
			in:         planInput{isSequence: true, numItems: 0, batchSize: 2, allowEmpty: true},
			wantStarts: nil,
			wantEnd:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := planRun(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.end != tt.wantEnd {
				t.Errorf("expected end %d, got %d", tt.wantEnd, p.end)
			}
			if diff := cmp.Diff(tt.wantStarts, p.chunkStarts()); diff != "" {
				t.Errorf("chunk starts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlan_Bounds(t *testing.T) {
	p := plan{numItems: 7, batchSize: 3}

	tests := []struct {
		start  int
		lo, hi int
	}{
		{0, 0, 3},
		{3, 3, 6},
		{6, 6, 7},
		{9, 7, 7},
	}

	for _, tt := range tests {
		lo, hi := p.bounds(tt.start)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("bounds(%d) = [%d, %d), want [%d, %d)", tt.start, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestNew_RequiresHandler(t *testing.T) {
	_, err := New(Config[int, int]{
		BatchItems: Payloads[int, int](1, 2, 3),
		BatchSize:  2,
	})

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Reason != ReasonHandlerRequired {
		t.Fatalf("expected handler required error, got %v", err)
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	handler := func(ctx context.Context, item int, index int) (int, error) { return item, nil }

	tests := []struct {
		name   string
		cfg    Config[int, int]
		setup  func(m *Manager[int, int])
		reason string
	}{
		{
			name:   "nil item sequence",
			cfg:    Config[int, int]{BatchSize: 2, DefaultHandler: handler},
			reason: ReasonNotArray,
		},
		{
			name:   "invalid batch size",
			cfg:    Config[int, int]{BatchItems: Payloads[int, int](1), DefaultHandler: handler},
			reason: ReasonInvalidBatchSize,
		},
		{
			name:   "empty items",
			cfg:    Config[int, int]{BatchItems: []Item[int, int]{}, BatchSize: 2, DefaultHandler: handler},
			reason: ReasonNoItems,
		},
		{
			name:   "starting index out of range",
			cfg:    Config[int, int]{BatchItems: Payloads[int, int](1, 2), BatchSize: 2, DefaultHandler: handler},
			setup:  func(m *Manager[int, int]) { m.SetStartingIndex(3) },
			reason: ReasonStartOutOfRange,
		},
		{
			name: "invalid ending index",
			cfg: Config[int, int]{
				BatchItems: Payloads[int, int](1, 2, 3), BatchSize: 2,
				StartingIndex: 2, DefaultHandler: handler,
			},
			setup:  func(m *Manager[int, int]) { m.SetEndingIndex(1) },
			reason: ReasonInvalidEndingIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected construction error: %v", err)
			}
			if tt.setup != nil {
				tt.setup(m)
			}

			_, err = m.Run(context.Background())

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, cfgErr.Reason)
			}
			if len(m.AllResults()) != 0 {
				t.Error("a rejected run must not be recorded in the history")
			}
		})
	}
}

func TestLoad_TurnsNilSequenceIntoSequence(t *testing.T) {
	m, err := New(Config[int, int]{
		BatchSize:  2,
		AllowEmpty: true,
		DefaultHandler: func(ctx context.Context, item int, index int) (int, error) {
			return item, nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Load()

	results, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("expected empty run to be allowed after Load, got %v", err)
	}
	if results.NumItems != 0 {
		t.Errorf("expected 0 items, got %d", results.NumItems)
	}
}
