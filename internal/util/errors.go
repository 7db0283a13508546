package util

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aryankumar/chunkrun/pkg/batch"
)

// Common error types for the chunkrun CLI
var (
	// ErrInvalidConfig indicates a configuration error outside the engine
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound indicates a missing items or results file
	ErrNotFound = errors.New("not found")

	// ErrInvalidDocument indicates an items or results file that cannot be parsed
	ErrInvalidDocument = errors.New("invalid document")

	// ErrUnknownHandler indicates a handler name that is not registered
	ErrUnknownHandler = errors.New("unknown handler")

	// ErrRunFailed indicates a run finished with failed items
	ErrRunFailed = errors.New("run finished with failed items")
)

// DocumentError wraps an error with the path of the file being processed
type DocumentError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// WrapDocumentError wraps an error with document context
func WrapDocumentError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &DocumentError{Path: path, Err: err}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
		sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidConfig) match validation failures
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	var cfgErr *batch.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("Invalid batch configuration: %s. Please check --batch-size, --starting-index and --ending-index.", cfgErr.Reason)
	case errors.Is(err, context.DeadlineExceeded):
		return "Operation timed out. Please try again or increase the timeout value with --timeout flag."
	case errors.Is(err, context.Canceled):
		return "Operation was cancelled."
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("File not found: %v", err)
	case errors.Is(err, ErrInvalidDocument):
		return fmt.Sprintf("Could not parse document: %v", err)
	case errors.Is(err, ErrUnknownHandler):
		return fmt.Sprintf("%v. Use one of: echo, exec, file, kube.", err)
	case errors.Is(err, ErrInvalidConfig):
		return fmt.Sprintf("Invalid configuration: %v. Please check your config file and command-line flags.", err)
	default:
		return err.Error()
	}
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
