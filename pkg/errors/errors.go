package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error represents a typed client error. Status carries the HTTP status of the
// remote call when one was observed.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"status,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so callers can test against the
// predefined values even after Clone or Wrap.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors covering transport, remote and local validation failures.
var (
	ErrTransport       = New("TRANSPORT_ERROR", http.StatusBadGateway, "request could not be completed")
	ErrRemote          = New("REMOTE_ERROR", http.StatusOK, "remote service reported an error")
	ErrValidation      = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrUnauthenticated = New("UNAUTHENTICATED", http.StatusUnauthorized, "authentication required")
	ErrNotFound        = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInvalidState    = New("INVALID_STATE", http.StatusBadRequest, "invalid list state")
	ErrCancelled       = New("CANCELLED", 0, "operation cancelled")
	ErrKeyNotFound     = New("KEY_NOT_FOUND", http.StatusNotFound, "key not present")
	ErrInternal        = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Validation builds a validation error carrying per-field messages.
func Validation(message string, fields map[string]string) *Error {
	e := Clone(ErrValidation, message)
	e.Fields = fields
	return e
}

// UserMessage returns the text shown to the user. Remote errors keep the
// service message verbatim; everything else falls back to Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Code == ErrValidation.Code && len(e.Fields) > 0 {
			keys := make([]string, 0, len(e.Fields))
			for k := range e.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, e.Fields[k])
			}
			return strings.Join(parts, "; ")
		}
		return e.Message
	}
	return err.Error()
}
