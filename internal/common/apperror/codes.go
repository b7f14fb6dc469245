package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a specific error type surfaced to API clients.
type Code string

const (
	// CodeValidation indicates malformed or oversized input.
	CodeValidation Code = "VALIDATION"
	// CodeUnauthorized indicates a missing, invalid or expired bearer token.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeForbidden indicates an authenticated caller that does not own the resource.
	CodeForbidden Code = "FORBIDDEN"
	// CodeNotFound indicates the referenced resource does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeDuplicate indicates a uniqueness violation such as a registered email.
	CodeDuplicate Code = "DUPLICATE"
	// CodeInvalidCredentials indicates a login mismatch. The cause is never disclosed.
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	// CodeRateLimited indicates the client exceeded its request budget.
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeInternal covers store/cache failures and anything unexpected.
	CodeInternal Code = "INTERNAL"
)

// InternalMessage is the only text an internal error ever shows a client.
const InternalMessage = "System Error"

// UnauthorizedMessage is shown for a missing, malformed or expired bearer token.
const UnauthorizedMessage = "Authorization Header Error: Invalid/Missing Bearer Token"

// AppError is a classified application error.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status maps the error code to an HTTP status.
func (e *AppError) Status() int {
	return StatusOf(e.Code)
}

// PublicMessage is the message safe to return to a client.
func (e *AppError) PublicMessage() string {
	if e.Code == CodeInternal {
		return InternalMessage
	}
	return e.Message
}

// Validation creates a validation error.
func Validation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg}
}

// Unauthorized creates an authorization error.
func Unauthorized(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg}
}

// Duplicate creates a duplicate error.
func Duplicate(msg string) *AppError {
	return &AppError{Code: CodeDuplicate, Message: msg}
}

// InvalidCredentials creates the generic login failure.
func InvalidCredentials() *AppError {
	return &AppError{Code: CodeInvalidCredentials, Message: "Invalid credentials"}
}

// RateLimited creates a rate limit error.
func RateLimited() *AppError {
	return &AppError{Code: CodeRateLimited, Message: "Too many requests"}
}

// Internal wraps an unexpected failure.
func Internal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, Cause: cause}
}

// As extracts an *AppError from the chain. Unclassified errors become internal.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unclassified error", err)
}

// CodeOf returns the code of err, CodeInternal for unclassified errors.
func CodeOf(err error) Code {
	return As(err).Code
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code Code) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusOf maps a code to its HTTP status.
func StatusOf(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicate:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
