// Package apperr defines the error taxonomy shared by services and
// handlers: every guard or lookup failure is raised as a kinded error and
// mapped to an HTTP status at the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalid
)

type Error struct {
	Knd    Kind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Cause)
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches two apperr errors by kind, so sentinel-style comparisons like
// errors.Is(err, apperr.Conflict("")) work in tests and callers.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Knd == t.Knd
	}
	return false
}

func NotFound(format string, args ...any) *Error {
	return &Error{Knd: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Knd: KindForbidden, Detail: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Knd: KindConflict, Detail: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) *Error {
	return &Error{Knd: KindInvalid, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an internal failure without classifying it.
func Wrap(cause error, format string, args ...any) *Error {
	return &Error{Knd: KindUnknown, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Knd
	}
	return KindUnknown
}

// Status maps an error to the HTTP status the boundary layer should return.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing detail, hiding internals for
// unclassified failures.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Knd != KindUnknown {
		return e.Detail
	}
	return "Internal server error"
}
