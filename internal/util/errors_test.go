package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aryankumar/chunkrun/pkg/batch"
)

func TestDocumentError(t *testing.T) {
	baseErr := errors.New("unexpected end of input")
	err := WrapDocumentError("shard-1.json", baseErr)

	if err.Error() != "shard-1.json: unexpected end of input" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, baseErr) {
		t.Error("expected errors.Is to find the wrapped error")
	}

	var docErr *DocumentError
	if !errors.As(err, &docErr) || docErr.Path != "shard-1.json" {
		t.Errorf("expected *DocumentError with path, got %#v", err)
	}

	if WrapDocumentError("x", nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestMultiError(t *testing.T) {
	tests := []struct {
		name     string
		errors   []error
		contains []string
		isNil    bool
	}{
		{
			name:  "no errors",
			isNil: true,
		},
		{
			name:     "single error",
			errors:   []error{errors.New("only one")},
			contains: []string{"only one"},
		},
		{
			name:     "multiple errors",
			errors:   []error{errors.New("first"), errors.New("second")},
			contains: []string{"2 errors occurred", "1. first", "2. second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MultiError{}
			for _, err := range tt.errors {
				m.Add(err)
			}
			m.Add(nil)

			err := m.ErrorOrNil()
			if tt.isNil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}

			for _, want := range tt.contains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected %q in %q", want, err.Error())
				}
			}
		})
	}
}

func TestMultiError_Truncates(t *testing.T) {
	m := &MultiError{}
	for i := 0; i < 13; i++ {
		m.Add(fmt.Errorf("error %d", i))
	}

	msg := m.Error()
	if !strings.Contains(msg, "... and 3 more errors") {
		t.Errorf("expected truncation notice, got %q", msg)
	}
	if strings.Contains(msg, "error 12") {
		t.Errorf("expected later errors to be elided, got %q", msg)
	}
}

func TestMultiErrorUnwrap(t *testing.T) {
	m := &MultiError{}
	m.Add(WrapDocumentError("a.json", ErrNotFound))
	m.Add(errors.New("other"))

	if !errors.Is(m, ErrNotFound) {
		t.Error("expected errors.Is to see through MultiError")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("defaults.outputFormat", "xml", "must be table, json or yaml")

	want := `validation failed for field "defaults.outputFormat" (value: xml): must be table, json or yaml`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("validation errors should match ErrInvalidConfig")
	}

	noValue := NewValidationError("handler.name", nil, "required")
	if noValue.Error() != `validation failed for field "handler.name": required` {
		t.Errorf("unexpected message: %q", noValue.Error())
	}
}

func TestFriendlyError(t *testing.T) {
	_, batchErr := batch.New(batch.Config[int, int]{BatchSize: 1})

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"batch config", batchErr, "handler required"},
		{"timeout", fmt.Errorf("run: %w", context.DeadlineExceeded), "timed out"},
		{"cancelled", context.Canceled, "cancelled"},
		{"not found", WrapDocumentError("items.yaml", ErrNotFound), "items.yaml"},
		{"invalid document", WrapDocumentError("items.yaml", ErrInvalidDocument), "Could not parse"},
		{"unknown handler", fmt.Errorf("%w: %q", ErrUnknownHandler, "ftp"), "echo, exec, file, kube"},
		{"validation", NewValidationError("batch.batchSize", -1, "must be positive"), "Invalid configuration"},
		{"other", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FriendlyError(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("expected empty message, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q in %q", tt.contains, got)
			}
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	if WrapErrorf(nil, "loading %s", "x") != nil {
		t.Error("wrapping nil should return nil")
	}

	err := WrapErrorf(ErrNotFound, "loading %s", "items.yaml")
	if err.Error() != "loading items.yaml: not found" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected wrapped sentinel")
	}
}
