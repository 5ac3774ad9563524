// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for Typhon.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies Typhon errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeToolFailure indicates a tool execution failed.
	CodeToolFailure ErrorCode = "TOOL_FAILURE"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeRateLimit indicates rate limiting was triggered.
	CodeRateLimit ErrorCode = "RATE_LIMITED"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeStorageError indicates a journal or vector store error.
	CodeStorageError ErrorCode = "STORAGE_ERROR"

	// CodeConfigError indicates the configuration was rejected.
	CodeConfigError ErrorCode = "CONFIG_ERROR"
)

// TyphonError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type TyphonError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
	StatusCode  int
}

// Error implements the error interface.
func (e *TyphonError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *TyphonError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *TyphonError) MarshalJSON() ([]byte, error) {
	type Alias TyphonError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new TyphonError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *TyphonError {
	return &TyphonError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *TyphonError) WithContext(key string, value interface{}) *TyphonError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *TyphonError) WithAttribute(key, value string) *TyphonError {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *TyphonError) WithRecoverable(recoverable bool) *TyphonError {
	e.Recoverable = recoverable
	return e
}

// AsTyphonError attempts to convert an error to a TyphonError.
// Returns the error as TyphonError if it is one, or wraps it otherwise.
func AsTyphonError(err error) *TyphonError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TyphonError); ok {
		return te
	}
	// Wrap unknown error as internal
	return New(CodeInternal, "wrapped error", err)
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *TyphonError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return 404
	case CodeInvalidInput, CodeConfigError:
		return 400
	case CodeTimeout:
		return 408
	case CodeRateLimit:
		return 429
	default:
		return 500
	}
}
