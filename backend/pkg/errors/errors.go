// Package errors holds the error categories shared by every layer.
//
// Services declare their own sentinels with New so that handlers can match
// either the precise sentinel or its category with errors.Is.
package errors

import "errors"

// Categories
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("validation")
	ErrDenied          = errors.New("denied")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")
)

// Error is a user-presentable error that belongs to a category.
// Message is safe to show to the end user.
type Error struct {
	Kind    error
	Message string
}

// New creates an error of the given category
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Message returns the user-facing text of err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
