package apperrors

import (
	"errors"
	"fmt"
)

// Kind represents the category of error
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConstraint   Kind = "constraint"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
)

// Error is the error type returned by the data layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConstraint   = &Error{Kind: KindConstraint}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrNotFound     = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func Constraint(message string, err error) *Error {
	return New(KindConstraint, message, err)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing message of the first *Error in err's chain.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong."
}
