// Package apperr defines the domain error taxonomy. Services return these,
// handlers map them to HTTP statuses; nothing else in the error chain is
// inspected at the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidOperation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthenticated
)

// Error is a domain error with a client-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a missing or malformed required field
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// InvalidOperation reports a request that can never succeed, such as
// friending yourself
func InvalidOperation(message string) *Error {
	return &Error{Kind: KindInvalidOperation, Message: message}
}

// Conflict reports a uniqueness violation
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotFound reports a missing referenced entity
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden reports an actor lacking authorization for a mutation
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Unauthenticated reports a missing or invalid credential
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Wrap attaches an underlying cause to a domain error
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain; unclassified errors are internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ClientMessage returns the message safe to show a client. Internal errors
// get a generic message so storage details never leak.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// HTTPStatus maps an error chain to a response status
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidOperation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
