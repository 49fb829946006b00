package core

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigError.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigError reports a setup value that can never produce a valid simulation.
// It is returned at construction time and is never swallowed.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigError is shorthand for &ConfigError{...}.
func NewConfigError(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// RequirePositive returns a ConfigError unless v is finite and > 0.
func RequirePositive(field string, v float64) error {
	if !isFinite(v) || v <= 0 {
		return NewConfigError(field, v, "must be a positive number")
	}
	return nil
}

// RequireNonNegative returns a ConfigError unless v is finite and >= 0.
func RequireNonNegative(field string, v float64) error {
	if !isFinite(v) || v < 0 {
		return NewConfigError(field, v, "must be a non-negative number")
	}
	return nil
}
