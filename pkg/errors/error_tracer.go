package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorTracer is a custom error type that carries an ErrorCode, an optional
// human-readable message and an underlying error with its stack trace.
type ErrorTracer struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewTracer creates a new ErrorTracer with the provided code.
func NewTracer(code ErrorCode) *ErrorTracer {
	return &ErrorTracer{
		Code: code,
	}
}

// TracerFromError creates a new ErrorTracer from an existing error, preserving
// the stack trace.
func TracerFromError(code ErrorCode, err error) *ErrorTracer {
	return NewTracer(code).Wrap(err)
}

// StackTracer is an interface that requires a StackTrace method.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

func (e *ErrorTracer) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// WithMessagef attaches a formatted diagnostic message to the tracer.
func (e *ErrorTracer) WithMessagef(format string, args ...any) *ErrorTracer {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps an existing error into the ErrorTracer, preserving the stack trace.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	_, ok := err.(StackTracer)
	if !ok {
		e.Err = errors.WithStack(err)
	}

	return e
}

// StackTrace returns the stack trace of the underlying error if it implements
// StackTracer.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	err := e.Unwrap()
	errWithStack, ok := err.(StackTracer)
	if ok {
		return errWithStack.StackTrace()
	}
	return nil
}
