package domain

import "errors" // Sentinel errors

// Error kinds understood by the API layer
var (
	ErrValidation = errors.New("validation error") // Malformed or missing input
	ErrConflict   = errors.New("conflict")         // Duplicate unique key
	ErrAuth       = errors.New("unauthorized")     // Bad credentials
	ErrNotFound   = errors.New("not found")        // Unknown identifier
)

// Error carries a client-facing message tagged with one of the kinds above
type Error struct {
	Kind    error  // One of the Err* sentinels
	Message string // Safe to return to the client
}

// Error implements the error interface
func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is match the kind
func (e *Error) Unwrap() error { return e.Kind }

// Validation returns a validation error with the given message
func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

// Conflict returns a conflict error with the given message
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Unauthorized returns an authentication error with the given message
func Unauthorized(msg string) error { return &Error{Kind: ErrAuth, Message: msg} }

// NotFound returns a not-found error with the given message
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }
