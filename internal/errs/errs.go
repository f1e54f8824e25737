// Package errs defines the coded error taxonomy for harness operations.
package errs

import (
	"errors"
	"fmt"
)

// Code is a harness error code.
type Code string

const (
	InvalidArgument        Code = "invalid_argument"
	NavigationFailed       Code = "navigation_failed"
	ElementNotFound        Code = "element_not_found"
	ElementNotInteractable Code = "element_not_interactable"
	AssertionFailed        Code = "assertion_failed"
	ProbeFailed            Code = "probe_failed"
	ScreenshotFailed       Code = "screenshot_failed"
	Internal               Code = "internal"
)

// Error is a coded harness error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var assertion *AssertionError
	if errors.As(err, &assertion) {
		return AssertionFailed
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// MessageOf returns a human-readable message for reports.
func MessageOf(err error) string {
	if err == nil {
		return string(Internal)
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	return err.Error()
}

// Fatal reports whether an error code aborts the current scenario.
// Screenshot failures are advisory: they are logged and the scenario continues.
func Fatal(code Code) bool {
	return code != ScreenshotFailed
}

// AssertionError records an expected-vs-actual mismatch with its label.
type AssertionError struct {
	Label    string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("assertion %q failed: expected %q, got %q", e.Label, e.Expected, e.Actual)
}

// AssertionOf returns the typed assertion error, or nil.
func AssertionOf(err error) *AssertionError {
	var assertion *AssertionError
	if errors.As(err, &assertion) {
		return assertion
	}
	return nil
}
