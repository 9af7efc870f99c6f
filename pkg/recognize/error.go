package recognize

import (
	"errors"
	"fmt"
)

// Error codes returned by session operations.
const (
	// CodeInitFailed means the session or its matcher could not be
	// constructed. The session is unusable; the caller must create a new one.
	CodeInitFailed = 2001

	// CodeInvalidState means an operation was called in a lifecycle state
	// that does not permit it, e.g. Feed before Start.
	CodeInvalidState = 2002

	// CodeMalformedInput means a fed buffer violated the format contract.
	CodeMalformedInput = 2003

	// CodeMatcher means the external matcher rejected an operation
	// synchronously, e.g. a start refused for quota reasons. Errors the
	// matcher reports asynchronously arrive through the event callback
	// instead.
	CodeMatcher = 2004
)

// Error is a failure reported synchronously by a session operation.
type Error struct {
	// Code classifies the failure.
	Code int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recognize: %s (code=%d): %v", e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("recognize: %s (code=%d)", e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInit reports whether the error is an initialization failure.
func (e *Error) IsInit() bool {
	return e.Code == CodeInitFailed
}

// IsInvalidState reports whether the operation was called in a state that
// does not permit it.
func (e *Error) IsInvalidState() bool {
	return e.Code == CodeInvalidState
}

// IsMalformedInput reports whether a fed buffer violated the format contract.
func (e *Error) IsMalformedInput() bool {
	return e.Code == CodeMalformedInput
}

// IsMatcher reports whether the external matcher rejected the operation.
func (e *Error) IsMatcher() bool {
	return e.Code == CodeMatcher
}

// AsError attempts to convert err to a *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// newError creates an Error with the given code.
func newError(code int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// wrapError wraps an underlying cause with the given code.
func wrapError(code int, err error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
