// Package errors defines custom error types and error handling utilities for the Sentinel service.
// This package provides structured error types that map to stable error codes and HTTP status codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a stable, machine-readable error identifier
type ErrorCode string

const (
	// CodeBackendError means the generative backend did not yield a usable response
	CodeBackendError ErrorCode = "backend_error"

	// CodeInvalidIncident means an incident violated its construction invariants
	CodeInvalidIncident ErrorCode = "invalid_incident"

	CodeInvalidRequest     ErrorCode = "invalid_request"
	CodeNotFound           ErrorCode = "not_found"
	CodeRateLimitExceeded  ErrorCode = "rate_limit_exceeded"
	CodeServerError        ErrorCode = "server_error"
	CodeServiceUnavailable ErrorCode = "service_unavailable"
	CodeInvalidConfig      ErrorCode = "invalid_config"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// SentinelError represents a structured error with additional metadata
type SentinelError interface {
	error

	// Code returns the stable error code
	Code() ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) SentinelError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) SentinelError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface
func (e *baseError) Error() string {
	msg := e.message
	if msg == "" {
		msg = e.description
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *baseError) Code() ErrorCode {
	return e.code
}

func (e *baseError) HTTPStatus() int {
	return e.httpStatus
}

func (e *baseError) Description() string {
	return e.description
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) WithCause(cause error) SentinelError {
	e.cause = cause
	return e
}

func (e *baseError) WithMetadata(key string, value interface{}) SentinelError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// NewError creates a new SentinelError with the specified parameters
func NewError(code ErrorCode, httpStatus int, description string, message string) SentinelError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrBackend creates a backend_error. Every failure to obtain a usable response from the
// generative backend is reported with this code: transport, status, auth, quota,
// cancellation and schema-violating payloads alike.
func ErrBackend(message string) SentinelError {
	return NewError(CodeBackendError, http.StatusBadGateway,
		"The risk intelligence backend did not return a usable response", message)
}

// ErrInvalidIncident creates an invalid_incident error
func ErrInvalidIncident(message string) SentinelError {
	return NewError(CodeInvalidIncident, http.StatusBadRequest,
		"The incident does not satisfy its invariants", message)
}

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) SentinelError {
	return NewError(CodeInvalidRequest, http.StatusBadRequest,
		"The request is missing a required parameter or is otherwise malformed", message)
}

// ErrIncidentNotFound creates a not_found error for an incident id
func ErrIncidentNotFound(id string) SentinelError {
	return NewError(CodeNotFound, http.StatusNotFound,
		"The requested incident was not found", fmt.Sprintf("incident %q not found", id)).
		WithMetadata("incident_id", id)
}

// ErrRateLimitExceeded creates a rate_limit_exceeded error
func ErrRateLimitExceeded(scope string) SentinelError {
	return NewError(CodeRateLimitExceeded, http.StatusTooManyRequests,
		"Too many requests, please try again later", "rate limit exceeded").
		WithMetadata("scope", scope)
}

// ErrServerError creates a server_error error
func ErrServerError(message string) SentinelError {
	return NewError(CodeServerError, http.StatusInternalServerError,
		"The server encountered an unexpected condition", message)
}

// ErrServiceUnavailable creates a service_unavailable error
func ErrServiceUnavailable(message string) SentinelError {
	return NewError(CodeServiceUnavailable, http.StatusServiceUnavailable,
		"The service is temporarily unavailable", message)
}

// ErrInvalidConfig creates an invalid_config error
func ErrInvalidConfig(message string) SentinelError {
	return NewError(CodeInvalidConfig, http.StatusInternalServerError,
		"The service configuration is invalid", message)
}

// ================================================================================
// Error Inspection Utilities
// ================================================================================

// AsSentinelError finds the first SentinelError in err's chain
func AsSentinelError(err error) (SentinelError, bool) {
	var sErr SentinelError
	if stderrors.As(err, &sErr) {
		return sErr, true
	}
	return nil, false
}

// HasCode reports whether err's chain carries a SentinelError with the given code
func HasCode(err error, code ErrorCode) bool {
	if sErr, ok := AsSentinelError(err); ok {
		return sErr.Code() == code
	}
	return false
}

// IsBackendError reports whether err is a backend_error
func IsBackendError(err error) bool {
	return HasCode(err, CodeBackendError)
}

// IsInvalidIncident reports whether err is an invalid_incident error
func IsInvalidIncident(err error) bool {
	return HasCode(err, CodeInvalidIncident)
}

// IsNotFoundError reports whether err is a not_found error
func IsNotFoundError(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsRateLimitError reports whether err is a rate limit error
func IsRateLimitError(err error) bool {
	return HasCode(err, CodeRateLimitExceeded)
}

// HTTPStatusOf maps any error to an HTTP status; unknown errors are 500
func HTTPStatusOf(err error) int {
	if sErr, ok := AsSentinelError(err); ok {
		return sErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ShouldLogError determines if an error should be logged at error level
func ShouldLogError(err error) bool {
	status := HTTPStatusOf(err)
	return status >= 500 || status == http.StatusTooManyRequests
}
