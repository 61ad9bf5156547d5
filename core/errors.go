package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NoDataError marks a failed or empty schedule fetch; handlers render it as
// a localized "no data" message instead of an error response.
type NoDataError struct {
	Err error
}

func NewNoDataError(err error) error { return &NoDataError{Err: err} }

func (err NoDataError) Error() string {
	if err.Err == nil {
		return "no schedule data"
	}
	return err.Err.Error()
}

func IsNoData(err error) bool {
	_, ok := errors.Cause(err).(*NoDataError)
	return ok
}

// RetryableError marks a save/unlock failure where in-memory editor state is
// preserved so the caller may retry.
type RetryableError struct {
	Err error
}

func NewRetryableError(err error) error { return &RetryableError{Err: err} }

func (err RetryableError) Error() string { return err.Err.Error() }

func IsRetryable(err error) bool {
	_, ok := errors.Cause(err).(*RetryableError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
