// Package apperror defines the application's error taxonomy.
//
// Services return these typed errors instead of HTTP status codes. The
// handler layer translates them (handler/response.go):
//
//	ErrValidation   → 400    ErrUnauthorized → 401
//	ErrForbidden    → 403    ErrNotFound     → 404
//	ErrConflict     → 409    anything else   → 500 (generic, details hidden)
//
// Every error here is an EXPECTED outcome — a normal response to the caller,
// never a fault. Only unexpected persistence failures (store unreachable)
// propagate outside this taxonomy.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel (for errors.Is dispatch), a human-readable
// message (for display), and optionally the form field that caused it.
type AppError struct {
	Err     error  // sentinel error, checked with errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation on a specific field, e.g. a
// registration attempt with a username that is already taken.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission to act
// on the named resource. HTTP handlers map this to 403 Forbidden.
//
// The resource identifier is included so the caller can redirect to an
// appropriate fallback view. A Forbidden result guarantees NO side effect
// occurred — no partial mutation, no identity change.
func Forbidden(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: fmt.Sprintf("you do not have permission to access %s %v", resource, id),
	}
}

// InvalidCredentials is the single, deliberately generic login failure.
//
// It is returned both when the username does not exist and when the password
// is wrong, so an attacker cannot use login responses to enumerate accounts.
// Internal logs may distinguish the two cases; callers never can.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "incorrect username/password combination",
	}
}
