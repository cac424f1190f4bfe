package heat

import (
	"errors"
	"fmt"
)

// Domain errors for diffusion runs.
var (
	// ErrInvalidConfiguration indicates a configuration that violates the
	// structural invariants of the grid (too few points, no time steps,
	// non-positive extents or a mismatched initial field).
	ErrInvalidConfiguration = errors.New("heat: invalid configuration")

	// ErrFinished indicates Step was called on an engine whose run has ended.
	ErrFinished = errors.New("heat: run already finished")
)

// ConfigError describes which configuration field was rejected and why.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", ErrInvalidConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalid(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
