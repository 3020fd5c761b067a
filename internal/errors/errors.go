// Package errors provides the error taxonomy shared by the sync pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes callers branch on.
var (
	// ErrAuthFailure means a credential was rejected. Fatal; re-running
	// without fixing configuration will not help.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrConflict means the worklog changed remotely between read and
	// write. The run fails; the next run re-reads and reconciles again.
	ErrConflict = errors.New("worklog changed upstream")
	// ErrNotFound means a remote resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

// APIError represents a failed call to an external API.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API error (status %d): %s: %v", e.Service, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError creates a new API error.
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

// IsAuth reports whether err is (or wraps) a credential rejection.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuthFailure)
}

// IsConflict reports whether err is (or wraps) a stale version token at
// write time.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
