package models

import (
	"errors"
	"fmt"
)

// ValidationError represents malformed or out-of-range input. Requests
// failing validation are rejected and the error is surfaced to the caller.
type ValidationError struct {
	message string
}

// NewValidationError creates a new validation error
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		message: fmt.Sprintf(format, args...),
	}
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return e.message
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
