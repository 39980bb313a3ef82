package schema

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when login is rejected with 401
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation is returned when the backend rejects a payload with 400
	ErrValidation = errors.New("validation failed")
	// ErrAuthExpired is returned when an authenticated call fails with 401 after the refresh attempt
	ErrAuthExpired = errors.New("authorization expired")
	// ErrNetworkUnavailable is returned when no response was received
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrServer is returned for 5xx responses
	ErrServer = errors.New("server error")
	// ErrUnexpectedStatus is returned for any other non 2xx response
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrNoRefreshToken is returned when refresh is requested without a stored refresh token
	ErrNoRefreshToken = errors.New("refresh token not found")
)

// Error represents backend call failure
type Error struct {
	Kind       error
	StatusCode int
	Message    string
	Fields     map[string][]string
	cause      error
}

// Error returns error message
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf(" (%d)", e.StatusCode))
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		sb.WriteString(": ")
		sb.WriteString(e.FieldSummary())
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

// Is matches error kind, so errors.Is(err, ErrValidation) works on *Error
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// Unwrap returns underlying transport error if any
func (e *Error) Unwrap() error {
	return e.cause
}

// FieldSummary returns field errors sorted by field name
func (e *Error) FieldSummary() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], ", "))
	}
	return strings.Join(parts, "; ")
}

// HasField returns true if backend reported an error for field
func (e *Error) HasField(name string) bool {
	_, ok := e.Fields[name]
	return ok
}

// NewError creates an error of the given kind
func NewError(kind error, statusCode int, message string) *Error {
	return &Error{Kind: kind, StatusCode: statusCode, Message: message}
}

// NewNetworkError wraps transport error as ErrNetworkUnavailable
func NewNetworkError(cause error) *Error {
	return &Error{Kind: ErrNetworkUnavailable, cause: cause}
}

// NewValidationError creates validation error with field messages
func NewValidationError(message string, fields map[string][]string) *Error {
	return &Error{Kind: ErrValidation, StatusCode: http.StatusBadRequest, Message: message, Fields: fields}
}

// StatusKind maps non 2xx status code to error kind; unauthorized is mapped by the caller
// since its meaning depends on the endpoint
func StatusKind(statusCode int) error {
	switch {
	case statusCode == http.StatusBadRequest:
		return ErrValidation
	case statusCode == http.StatusUnauthorized:
		return ErrAuthExpired
	case statusCode >= http.StatusInternalServerError:
		return ErrServer
	}
	return ErrUnexpectedStatus
}

// StatusCode returns status code carried by err or 0
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
