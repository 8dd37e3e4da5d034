package common

import (
	"errors"
	"fmt"

	"airspace-analytics/sectorcap/internal/constants"
)

// CoreError is an actionable precondition failure of the analytics core.
// Code is one of the constants.ErrCode* values.
type CoreError struct {
	Code    string
	Message string
	Err     error
}

// NewCoreError builds a CoreError, defaulting Message to the code's text
func NewCoreError(code, message string, err error) *CoreError {
	if message == "" {
		message = constants.GetErrorMessage(code)
	}
	return &CoreError{Code: code, Message: message, Err: err}
}

func (e *CoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the CoreError code carried by err, or "" when err is not one
func ErrorCode(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsCode reports whether err carries the given code
func IsCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}
