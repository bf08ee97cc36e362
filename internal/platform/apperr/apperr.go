// Copyright (c) 2026 AfterMe. All rights reserved.

/*
Package apperr defines the centralized error taxonomy for the AfterMe API.

Every failure that leaves the service layer is one of a closed set of
[AppError] kinds. Handlers never invent status codes: the mapping from
error kind to HTTP status lives here and nowhere else.

Architecture:

  - AppError: A struct containing a machine-readable Code and a client-safe Message.
  - Cause chain: The underlying error survives for logging and classification,
    but is never serialized to clients.
  - Closed set: the constructors below are the only way to produce an AppError.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the AfterMe API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging and internal classification only.
// It is never sent to clients in production, to avoid leaking implementation
// details (SQL state, token parsing internals).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "CONFLICT", "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for INVALID_INPUT responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// InvalidInput creates a 400 [AppError] with optional per-field details.
func InvalidInput(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "INVALID_INPUT",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// InvalidCredentials creates the 401 [AppError] returned for every failed
// login attempt.
//
// # No Enumeration
//
// The message is deliberately identical whether the email is unknown or the
// password is wrong, so that login responses cannot be used to probe which
// addresses are registered.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Unauthenticated creates a 401 [AppError] for bearer-token failures.
//
// The cause retains the specific token-verification kind (malformed, bad
// signature, expired) for logging and tests, while msg is what clients see.
func Unauthenticated(msg string, cause error) *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("User") // Returns "User not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client in production.
func Internal(msg string, cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL",
		Message:    msg,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
