// Package apperr defines the tagged error type shared by the adapters and the
// orchestration layer. Every failure that crosses a package boundary carries
// one Kind, so callers can render a uniform notice without inspecting causes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	// KindValidation means required input was missing before any network call.
	KindValidation Kind = "validation"
	// KindUnavailable means a completion, translation or image backend could
	// not be reached or is not configured.
	KindUnavailable Kind = "unavailable"
	// KindMalformedOutput means the model answered but nothing usable could
	// be extracted.
	KindMalformedOutput Kind = "malformed_output"
	// KindTransport means a website fetch failed.
	KindTransport Kind = "transport"
	// KindNotFound means a stored record does not exist.
	KindNotFound Kind = "not_found"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// Error is a failure tagged with a Kind and a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that wraps cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Validation is shorthand for New(KindValidation, message).
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Unavailable is shorthand for Wrap(KindUnavailable, message, cause).
func Unavailable(message string, cause error) *Error {
	return Wrap(KindUnavailable, message, cause)
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message of err. Untagged errors get a
// generic message so internal details never reach the client.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// HTTPStatus maps a Kind to the status code the API responds with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMalformedOutput:
		return http.StatusUnprocessableEntity
	case KindTransport:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
