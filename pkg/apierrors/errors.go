package apierrors

import "errors"

// Code represents a client-side error category independent of any single
// endpoint. These codes describe what went wrong in terms of the call to the
// upstream gateway, not in terms of a page or widget.
type Code string

const (
	// CodeTransport means the request never produced an HTTP response
	// (connection refused, DNS failure, timeout).
	CodeTransport Code = "transport_failed"
	// CodeNotFound maps a 404 from the gateway.
	CodeNotFound Code = "not_found"
	// CodeBadRequest maps a 400/422 from the gateway.
	CodeBadRequest Code = "bad_request"
	// CodeConflict maps a 409 from the gateway.
	CodeConflict Code = "conflict"
	// CodeUpstream covers any other non-2xx status.
	CodeUpstream Code = "upstream_error"
	// CodeDecode means the response body could not be parsed into the
	// expected shape.
	CodeDecode Code = "decode_failed"
	// CodeInternal covers failures inside this process.
	CodeInternal Code = "internal_error"
)

// Error wraps a gateway or transport failure with a stable code. Status holds
// the HTTP status when one was received, zero otherwise. Message carries the
// structured message from the gateway's error body when it sent one.
type Error struct {
	Code    Code
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new error wrapping an existing one. If the wrapped error
// already carries a code, the original code and status are preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Status: existing.Status, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// FromStatus builds an error for a non-2xx response. msg is the structured
// message extracted from the body, which may be empty.
func FromStatus(status int, msg string) error {
	var code Code
	switch status {
	case 404:
		code = CodeNotFound
	case 400, 422:
		code = CodeBadRequest
	case 409:
		code = CodeConflict
	default:
		code = CodeUpstream
	}
	return &Error{Code: code, Status: status, Message: msg}
}

// HasCode checks if an error carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// StatusOf returns the HTTP status carried by the error, or zero.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Reduce collapses any error into a single user-visible message: the
// structured message from the gateway's error body if present, otherwise the
// transport error's message, otherwise a generic fallback. Pages display the
// result as a transient notice and never branch on it.
func Reduce(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return e.Err.Error()
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}
