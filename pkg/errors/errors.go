package apperrors

import "errors"

// Common errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrTooLarge           = errors.New("file too large")
	ErrRateLimited        = errors.New("rate limited")
	ErrAdminNotConfigured = errors.New("admin credentials not configured")
)

// Invalid wraps a field-level message so callers can match on
// ErrInvalidInput while still surfacing the message to the client.
func Invalid(msg string) error {
	return &invalidError{msg: msg}
}

type invalidError struct {
	msg string
}

func (e *invalidError) Error() string { return e.msg }

func (e *invalidError) Unwrap() error { return ErrInvalidInput }
