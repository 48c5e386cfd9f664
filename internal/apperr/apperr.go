// Package apperr holds the error kinds that services return and handlers
// translate into HTTP responses.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidCredentials
	KindForbidden
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Status maps a kind to the HTTP status the API answers with.
// Conflicts answer 400 like the other client-side mistakes.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidCredentials, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind: errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
)

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

func InvalidCredentials(msg string) error {
	return &Error{Kind: KindInvalidCredentials, Message: msg}
}

func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

func Unauthorized(msg string, err error) error {
	return &Error{Kind: KindUnauthorized, Message: msg, Err: err}
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err. Internal errors never
// leak their text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
