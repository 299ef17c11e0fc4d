package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyName          = errors.New("empty name")
	ErrNameTooLong        = errors.New("name too long (max 100 characters)")
	ErrDescriptionTooLong = errors.New("description too long (max 255 characters)")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingReference   = errors.New("missing payment type or category reference")

	// ErrNotFound is returned by storage when a record does not exist in the
	// requested wallet. Id-addressed operations report it as ErrForbidden to
	// avoid leaking which ids exist.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden covers operations targeting records outside the caller's
	// wallet. Surfaced as a blanket forbidden outcome, no detail leaked.
	ErrForbidden = errors.New("forbidden")

	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports bad input as field-level messages, the way the
// account forms surface them.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
