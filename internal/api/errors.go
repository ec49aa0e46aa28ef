package api

import (
	"errors"
	"net/http"

	"github.com/partrace/partrace/internal/history"
	"github.com/partrace/partrace/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorCode represents error codes used in API responses
type ErrorCode string

const (
	// ErrorCodeInvalidRequest represents invalid request parameters
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrorCodeNotFound represents a not found error
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeUpstreamUnavailable represents an unreachable trace history store
	ErrorCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// ErrorCodeAnalysisFailed represents an internal analysis failure
	ErrorCodeAnalysisFailed ErrorCode = "ANALYSIS_FAILED"
)

// statusForError maps engine errors onto HTTP status and error codes.
// Invalid input is the caller's fault, an unavailable history store is a
// retryable upstream condition, everything else is an analysis failure.
func statusForError(err error) (int, ErrorCode) {
	switch {
	case models.IsValidationError(err):
		return http.StatusBadRequest, ErrorCodeInvalidRequest
	case errors.Is(err, history.ErrUnavailable):
		return http.StatusServiceUnavailable, ErrorCodeUpstreamUnavailable
	default:
		return http.StatusInternalServerError, ErrorCodeAnalysisFailed
	}
}
