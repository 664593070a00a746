// ABOUTME: Error types and handling for the FuzzySearch client
// ABOUTME: Provides structured errors with context for library operations

package fuzzysearch

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates invalid input to a client method
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeDecode indicates a response body that did not match the
	// expected shape
	ErrorTypeDecode ErrorType = "decode"

	// ErrorTypePrecondition indicates an accessor was called on a result
	// missing the data it depends on
	ErrorTypePrecondition ErrorType = "precondition"

	// ErrorTypeNetwork indicates a transport-level failure
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeAPI indicates a non-success response from the service
	ErrorTypeAPI ErrorType = "api"

	// ErrorTypeConfiguration indicates a client configuration error
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Error represents a structured error from the library
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error with the given type and message
func NewError(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WithCause adds a cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Common errors
var (
	// ErrMissingSiteInfo is returned by result accessors when the service
	// omitted site information from a match
	ErrMissingSiteInfo = NewError(ErrorTypePrecondition, "search result is missing site info")

	// ErrMissingArtists is returned when a Twitter source URL is requested
	// for a match without any artists
	ErrMissingArtists = NewError(ErrorTypePrecondition, "twitter result has no artists")

	// ErrMissingAPIKey is returned when a client is created without an API key
	ErrMissingAPIKey = NewError(ErrorTypeConfiguration, "an API key is required")
)

// IsDecodeError checks if an error is a decode error
func IsDecodeError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrorTypeDecode
	}
	return false
}

// IsPreconditionError checks if an error is a precondition error
func IsPreconditionError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrorTypePrecondition
	}
	return false
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrorTypeNetwork
	}
	return false
}

// IsAPIError checks if an error is an API error
func IsAPIError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrorTypeAPI
	}
	return false
}
