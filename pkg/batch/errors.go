package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every ConfigError
	ErrInvalidConfig = errors.New("invalid batch configuration")

	// ErrInvalidArgument is matched by every ArgumentError
	ErrInvalidArgument = errors.New("invalid argument")
)

// Reasons carried by ConfigError
const (
	ReasonNotArray           = "not array format"
	ReasonInvalidBatchSize   = "invalid batchSize"
	ReasonNoItems            = "no items provided"
	ReasonStartOutOfRange    = "starting index out of range"
	ReasonInvalidEndingIndex = "invalid ending index"
	ReasonHandlerRequired    = "handler required"
)

// ConfigError reports a configuration problem detected at construction or at
// the start of a run. The caller has to fix the configuration and retry.
type ConfigError struct {
	Reason string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("batch: %s", e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) true for any ConfigError
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func configError(reason string) error {
	return &ConfigError{Reason: reason}
}

// ArgumentError reports a missing or malformed argument to a stateless helper
type ArgumentError struct {
	Argument string
	Message  string
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("batch: argument %q: %s", e.Argument, e.Message)
}

// Is makes errors.Is(err, ErrInvalidArgument) true for any ArgumentError
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
