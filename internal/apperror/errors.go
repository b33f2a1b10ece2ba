// Package apperror defines the error kinds shared by the survey services,
// the HTTP layer and the API client.
package apperror

import (
	"errors"
	"strings"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrAlreadyCompleted = errors.New("survey already completed")
	ErrUnavailable      = errors.New("service unavailable")
)

// Error codes carried in HTTP error bodies.
const (
	CodeValidation       = "validation_error"
	CodeNotFound         = "not_found"
	CodeSessionNotFound  = "session_not_found"
	CodeAlreadyCompleted = "already_completed"
	CodeUnavailable      = "unavailable"
	CodeInternal         = "internal_error"
)

// ValidationError lists the offending fields of a rejected request.
type ValidationError struct {
	Fields []string
	Reason string
}

func NewValidationError(reason string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Reason: reason}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return e.Reason + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Code returns the wire code for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrSessionNotFound):
		return CodeSessionNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyCompleted):
		return CodeAlreadyCompleted
	case errors.Is(err, ErrUnavailable):
		return CodeUnavailable
	default:
		return CodeInternal
	}
}

// FromCode maps a wire code back onto its sentinel. Unknown codes yield nil.
func FromCode(code string) error {
	switch code {
	case CodeValidation:
		return ErrValidation
	case CodeNotFound:
		return ErrNotFound
	case CodeSessionNotFound:
		return ErrSessionNotFound
	case CodeAlreadyCompleted:
		return ErrAlreadyCompleted
	case CodeUnavailable:
		return ErrUnavailable
	}
	return nil
}
