// Package apperr defines the error taxonomy the HTTP layer maps onto status
// codes: validation and not-found errors are client-caused and carry a message
// safe to return; infrastructure errors wrap an internal cause that must only
// be logged, never serialized.
package apperr

import "fmt"

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFound(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

type InfraError struct {
	Cause error
}

func (e *InfraError) Error() string { return "infrastructure error: " + e.Cause.Error() }

func (e *InfraError) Unwrap() error { return e.Cause }

func Infra(cause error) error {
	return &InfraError{Cause: cause}
}
