// Package apperrors defines the error taxonomy shared by services and
// handlers. Services wrap these sentinels with context via fmt.Errorf and
// %w; handlers map them to HTTP status codes with errors.Is.
package apperrors

import "errors"

var (
	// ErrValidation marks a missing or malformed required field.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an absent post, comment, or parent comment.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an ownership mismatch on edit or delete.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable marks an unreachable storage backend. The underlying
	// message is passed through to the caller verbatim.
	ErrUnavailable = errors.New("storage unavailable")
)
