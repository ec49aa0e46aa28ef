package config

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration error
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{message: fmt.Sprintf(format, args...)}
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return e.message
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
