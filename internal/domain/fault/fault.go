// Package fault defines the error taxonomy shared by the domain layer.
// Every domain error wraps one of the sentinel kinds below so callers can
// classify failures with errors.Is and map them to stable codes.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Entity mutators and services wrap these with %w.
var (
	// ErrValidation indicates a malformed or empty required field.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a referenced aggregate is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState indicates a mutation attempted from an illegal
	// lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// ErrAgentBusy indicates an agent has no remaining job capacity.
	ErrAgentBusy = errors.New("agent busy")

	// ErrDomain is the catch-all for domain rule violations that fit no
	// more specific kind.
	ErrDomain = errors.New("domain error")
)

// Validation returns a validation error with the given detail.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Validationf returns a formatted validation error.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns a not-found error for the named aggregate.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Conflict returns a conflict error with the given detail.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// InvalidState returns an invalid-state error with the given detail.
func InvalidState(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, msg)
}

// InvalidStatef returns a formatted invalid-state error.
func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// AgentBusy returns an agent-busy error with the given detail.
func AgentBusy(msg string) error {
	return fmt.Errorf("%w: %s", ErrAgentBusy, msg)
}

// Domain returns a generic domain error with the given detail.
func Domain(msg string) error {
	return fmt.Errorf("%w: %s", ErrDomain, msg)
}

// Code returns the stable machine-readable code for err, for API surfacing.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrAgentBusy):
		return "AGENT_BUSY"
	case errors.Is(err, ErrDomain):
		return "DOMAIN_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// StatusCode returns the HTTP status the presentation layer should use
// for err.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAgentBusy):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrDomain):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
