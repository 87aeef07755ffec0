package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for casegraph errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	CONFIG_NOT_FOUND         ErrorCode = "CONFIG_NOT_FOUND"
)

// Retrieval error codes
const (
	STORE_UNAVAILABLE  ErrorCode = "STORE_UNAVAILABLE"
	INVALID_OPERATION  ErrorCode = "INVALID_OPERATION"
	UNGROUNDED_CLAIM   ErrorCode = "UNGROUNDED_CLAIM"
	STALE_TURN         ErrorCode = "STALE_TURN"
	GENERATION_FAILED  ErrorCode = "GENERATION_FAILED"
	INDEX_REFRESH_FAIL ErrorCode = "INDEX_REFRESH_FAILED"
)

// CaseGraphError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type CaseGraphError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *CaseGraphError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *CaseGraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a CaseGraphError with the same Code.
func (e *CaseGraphError) Is(target error) bool {
	var other *CaseGraphError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewError creates a new non-retryable CaseGraphError with the given code and message.
func NewError(code ErrorCode, message string) *CaseGraphError {
	return &CaseGraphError{Code: code, Message: message}
}

// NewRetryableError creates a new retryable CaseGraphError.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *CaseGraphError {
	return &CaseGraphError{Code: code, Message: message, Retryable: true}
}

// WrapError creates a new non-retryable CaseGraphError that wraps an existing error.
func WrapError(code ErrorCode, message string, cause error) *CaseGraphError {
	return &CaseGraphError{Code: code, Message: message, Cause: cause}
}

// WrapRetryableError creates a new retryable CaseGraphError that wraps an existing error.
func WrapRetryableError(code ErrorCode, message string, cause error) *CaseGraphError {
	return &CaseGraphError{Code: code, Message: message, Retryable: true, Cause: cause}
}

// IsRetryable reports whether err is, or wraps, a retryable CaseGraphError.
func IsRetryable(err error) bool {
	var cgErr *CaseGraphError
	if errors.As(err, &cgErr) {
		return cgErr.Retryable
	}
	return false
}

// HasCode reports whether err is, or wraps, a CaseGraphError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var cgErr *CaseGraphError
	if errors.As(err, &cgErr) {
		return cgErr.Code == code
	}
	return false
}
