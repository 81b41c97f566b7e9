package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors. Callers match these with errors.Is.
var (
	// ErrConfiguration covers missing credentials and unknown backend tags.
	// Fatal to the requested operation; never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrBackendUnavailable means the local inference engine could not be
	// reached. Surfaced with remediation instructions.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackend is a generic provider failure, surfaced verbatim.
	ErrBackend = errors.New("backend error")

	// ErrInvalidInput marks malformed uploads (empty or undecodable bytes).
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat marks uploads matching neither PDF nor an image.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtraction wraps PDF/OCR failures after internal fallbacks.
	ErrExtraction = errors.New("extraction failed")

	// Structured-repair failures.
	ErrEmptyResponse  = errors.New("empty model response")
	ErrNoJSONFound    = errors.New("no json object in response")
	ErrUnbalancedJSON = errors.New("unbalanced json object in response")
	ErrInvalidJSON    = errors.New("invalid json in response")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
