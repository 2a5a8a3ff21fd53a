// Package errors defines the stable error codes used across the resolution
// pipeline. Every internal fault maps to one of these codes before it reaches
// a caller; the blocking entry point collapses them all to "no result".
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidOffset indicates a cursor offset outside document bounds
	InvalidOffset ErrorCode = "INVALID_OFFSET"
	// ClassificationMiss indicates the offset is not an identifier span
	ClassificationMiss ErrorCode = "CLASSIFICATION_MISS"
	// IslandNotFound indicates no contiguous identifier at the position
	IslandNotFound ErrorCode = "ISLAND_NOT_FOUND"
	// TypecheckAborted indicates the oracle could not complete typechecking
	TypecheckAborted ErrorCode = "TYPECHECK_ABORTED"
	// RangeOutOfDocument indicates an oracle range beyond the target document
	RangeOutOfDocument ErrorCode = "RANGE_OUT_OF_DOCUMENT"
	// IndexMissing indicates the oracle's index was not found
	IndexMissing ErrorCode = "INDEX_MISSING"
	// DocumentUnknown indicates the document is outside the oracle's index
	DocumentUnknown ErrorCode = "DOCUMENT_UNKNOWN"
	// Cancelled indicates the request was cancelled by the caller
	Cancelled ErrorCode = "CANCELLED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// NavError carries a stable code alongside the message and underlying cause.
type NavError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a NavError with the given code and message.
func New(code ErrorCode, message string) *NavError {
	return &NavError{Code: code, Message: message}
}

// Wrap creates a NavError that records an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *NavError {
	return &NavError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *NavError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *NavError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *NavError) WithDetails(details interface{}) *NavError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from err, or InternalError if err carries none.
func CodeOf(err error) ErrorCode {
	var navErr *NavError
	if stderrors.As(err, &navErr) {
		return navErr.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
