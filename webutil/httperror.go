package webutil

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	msgBadRequest       = "Bad Request"
	msgNotFound         = "Resource not found"
	msgInternalServer   = "Internal Server Error"
	msgUnauthorized     = "Authentication required"
	msgMethodNotAllowed = "Method not allowed"
)

// ErrorKind classifies an HTTPError independently of its message, so callers
// can tell causes apart without matching on text.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindNotFound       ErrorKind = "not_found"
	KindPersistence    ErrorKind = "persistence"
	KindRouteNotFound  ErrorKind = "route_not_found"
	KindInternal       ErrorKind = "internal"
)

// Represents an error with an associated HTTP status code
// and a user-facing message.
type HTTPError struct {
	cause   error     // The underlying error, can be nil
	Code    int       // HTTP status code
	Kind    ErrorKind // Error category
	Message string    // User-facing error message
}

// Implements the error interface.
// It returns the Message, which is intended for the HTTP response.
func (he HTTPError) Error() string {
	return he.Message
}

// Provides compatibility for errors.Is and errors.As.
func (he HTTPError) Unwrap() error {
	return he.cause
}

// KindOf reports the ErrorKind of err, or KindInternal if err is not an HTTPError.
func KindOf(err error) ErrorKind {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind
	}
	return KindInternal
}

// Returns the defaultVal if the initial message is empty.
func defaultMessageIfEmpty(initialMsg, defaultVal string) string {
	if initialMsg == "" {
		return defaultVal
	}
	return initialMsg
}

// Creates a new HTTPError with a code and message.
func NewHTTPError(code int, kind ErrorKind, message string) *HTTPError {
	return &HTTPError{
		cause:   errors.New(message), // Base error is the message itself
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Creates a new HTTPError that wraps an existing error (cause).
// The message is a user-facing message for this specific HTTP error context.
func NewHTTPErrorWrap(code int, kind ErrorKind, message string, cause error) *HTTPError {
	return &HTTPError{
		cause:   cause,
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, KindValidation, defaultMessageIfEmpty(message, msgBadRequest))
}

func ErrBadRequestWrap(message string, cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusBadRequest, KindValidation, defaultMessageIfEmpty(message, msgBadRequest), cause)
}

func ErrUnauthorizedWrap(message string, cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusUnauthorized, KindAuthentication, defaultMessageIfEmpty(message, msgUnauthorized), cause)
}

func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, KindNotFound, defaultMessageIfEmpty(message, msgNotFound))
}

func ErrNotFoundWrap(message string, cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusNotFound, KindNotFound, defaultMessageIfEmpty(message, msgNotFound), cause)
}

func ErrRouteNotFound() *HTTPError {
	return NewHTTPError(http.StatusNotFound, KindRouteNotFound, msgNotFound)
}

func ErrMethodNotAllowed() *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, KindRouteNotFound, msgMethodNotAllowed)
}

// ErrPersistenceWrap reports a storage failure. The failure detail is part of
// the public message.
func ErrPersistenceWrap(message string, cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusInternalServerError, KindPersistence, fmt.Sprintf("%s: %v", message, cause), cause)
}
