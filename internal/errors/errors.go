// Package errors provides structured application errors with codes, so the
// battery can report which stage of a probe failed.
package errors

import (
	"fmt"
)

// Common error codes
const (
	CodeInternal    = "INTERNAL_ERROR"
	CodeCorpusLoad  = "CORPUS_LOAD"
	CodeCacheLoad   = "CACHE_LOAD"
	CodeProbeFailed = "PROBE_FAILED"
	CodeReportWrite = "REPORT_WRITE"
	CodeLedger      = "LEDGER"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an error with additional context, preserving an existing code
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternal
	if appErr, ok := err.(*AppError); ok {
		code = appErr.Code
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode wraps an error under a specific code
func WithCode(code string, err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// CodeOf extracts the code from an error, or CodeInternal
func CodeOf(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
