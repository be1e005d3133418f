package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers map these to status codes
// at the request boundary; none of them are retried.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// Auth failures, kept distinct so login can explain itself.
	ErrNoSuchAccount = errors.New("account does not exist")
	ErrSocialOnly    = errors.New("this account is for social login only")
	ErrBadCredential = errors.New("incorrect password")
	ErrUsernameTaken = errors.New("username is already registered")
)

// ValidationError is malformed input: a bad identifier, a missing required
// field. Raised before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for one field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamError wraps a store, media-host or mail failure. It is logged with
// context and surfaced to the user as a generic failure.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err with the failed operation's name.
func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}
