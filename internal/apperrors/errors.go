package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for callers and for the HTTP layer.
type Kind string

const (
	Unauthenticated Kind = "UNAUTHENTICATED"
	Forbidden       Kind = "FORBIDDEN"
	NotFound        Kind = "NOT_FOUND"
	InvalidInput    Kind = "INVALID_INPUT"
	AlreadyPresent  Kind = "ALREADY_PRESENT"
	NotPresent      Kind = "NOT_PRESENT"
	OperationFailed Kind = "OPERATION_FAILED"
)

var statusByKind = map[Kind]int{
	Unauthenticated: http.StatusUnauthorized,
	Forbidden:       http.StatusForbidden,
	NotFound:        http.StatusNotFound,
	InvalidInput:    http.StatusBadRequest,
	AlreadyPresent:  http.StatusConflict,
	NotPresent:      http.StatusConflict,
	OperationFailed: http.StatusInternalServerError,
}

// Status returns the HTTP status code for this kind
func (k Kind) Status() int {
	if code, ok := statusByKind[k]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to a lower-level cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func Unauthorized(message string) *Error { return New(Unauthenticated, message) }

func NotFoundf(resource string) *Error { return Newf(NotFound, "%s not found", resource) }

func Invalid(message string) *Error { return New(InvalidInput, message) }

func Failed(message string, err error) *Error { return Wrap(OperationFailed, message, err) }
