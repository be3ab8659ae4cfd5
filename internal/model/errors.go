package model

import (
	"errors"
	"fmt"
)

// ErrConfig is the sentinel behind every configuration failure.
var ErrConfig = errors.New("invalid configuration")

// ConfigError describes invalid or missing configuration. It is always fatal
// and raised before any network call is made.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Message
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError creates a ConfigError for a single field.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}
