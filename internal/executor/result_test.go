package executor

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCountSuccessful(t *testing.T) {
	tests := []struct {
		name     string
		results  []Result[string]
		expected int
	}{
		{
			name:     "empty results",
			results:  []Result[string]{},
			expected: 0,
		},
		{
			name: "all successful",
			results: []Result[string]{
				{Name: "i1"},
				{Name: "i2"},
				{Name: "i3"},
			},
			expected: 3,
		},
		{
			name: "all failed",
			results: []Result[string]{
				{Name: "i1", Error: errors.New("error1")},
				{Name: "i2", Error: errors.New("error2")},
			},
			expected: 0,
		},
		{
			name: "mixed",
			results: []Result[string]{
				{Name: "i1"},
				{Name: "i2", Error: errors.New("error")},
				{Name: "i3"},
				{Name: "i4", Error: errors.New("error")},
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountSuccessful(tt.results)
			if got != tt.expected {
				t.Errorf("CountSuccessful() = %d, want %d", got, tt.expected)
			}
			if failed := CountFailed(tt.results); failed != len(tt.results)-tt.expected {
				t.Errorf("CountFailed() = %d, want %d", failed, len(tt.results)-tt.expected)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	results := []Result[int]{
		{Name: "i1", Duration: 10 * time.Millisecond},
		{Name: "i2", Duration: 30 * time.Millisecond},
		{Name: "i3", Duration: 20 * time.Millisecond},
	}

	if got := AverageDuration(results); got != 20*time.Millisecond {
		t.Errorf("AverageDuration() = %v, want 20ms", got)
	}
	if got := MaxDuration(results); got != 30*time.Millisecond {
		t.Errorf("MaxDuration() = %v, want 30ms", got)
	}
	if got := AverageDuration([]Result[int]{}); got != 0 {
		t.Errorf("AverageDuration(empty) = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	results := []Result[string]{
		{Name: "i1", Duration: 10 * time.Millisecond},
		{Name: "i2", Error: errors.New("failed"), Duration: 20 * time.Millisecond},
	}

	summary := Summarize(results)

	if summary.Total != 2 || summary.Successful != 1 || summary.Failed != 1 {
		t.Errorf("unexpected summary counts: %+v", summary)
	}

	str := summary.String()
	for _, want := range []string{"Total: 2", "Successful: 1", "Failed: 1", "Avg: 15ms", "Max: 20ms"} {
		if !strings.Contains(str, want) {
			t.Errorf("summary string %q missing %q", str, want)
		}
	}
}

func TestSummary_String_Empty(t *testing.T) {
	str := Summarize([]Result[string]{}).String()

	if str != "Total: 0, Successful: 0, Failed: 0" {
		t.Errorf("unexpected empty summary: %q", str)
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name       string
		successful int
		total      int
		expected   float64
	}{
		{"no items", 0, 0, 0.0},
		{"all successful", 4, 4, 100.0},
		{"half", 2, 4, 50.0},
		{"negative total", 1, -1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuccessRate(tt.successful, tt.total); got != tt.expected {
				t.Errorf("SuccessRate(%d, %d) = %v, want %v", tt.successful, tt.total, got, tt.expected)
			}
		})
	}
}
