package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. Every failure surfaced by the core maps
// to exactly one of these.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeAuthError    = "AUTH_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the application error type. Fields carries per-field messages
// for validation failures; Err wraps the underlying cause (never shown to
// external callers for internal errors).
type AppError struct {
	Code    string
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that a referenced resource does not exist.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewForbiddenError reports an authenticated but unpermitted action.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewUnauthorizedError reports a missing required identity.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewAuthError reports failed login credentials. The message is deliberately
// generic so unknown-email and wrong-password are indistinguishable.
func NewAuthError() *AppError {
	return &AppError{
		Code:    CodeAuthError,
		Message: "email or password is invalid",
	}
}

// NewValidationError reports a single-message validation failure.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldErrors reports structured per-field validation failures.
func NewFieldErrors(fields map[string][]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// NewConflictError reports a uniqueness or integrity violation.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewInternalError wraps a storage or transport failure. The cause is kept
// for logs but never rendered to clients.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// statusFor is the exhaustive code-to-status mapping.
func statusFor(code string) int {
	switch code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeAuthError, CodeValidation:
		return fiber.StatusUnprocessableEntity
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorKey picks the envelope key for errors without field detail.
func errorKey(code string) string {
	switch code {
	case CodeNotFound:
		return "not_found"
	case CodeForbidden:
		return "forbidden"
	case CodeUnauthorized:
		return "unauthorized"
	case CodeAuthError:
		return "email or password"
	case CodeConflict:
		return "conflict"
	case CodeValidation:
		return "body"
	default:
		return "internal"
	}
}

// Respond writes the error as a JSON response with the mapped status code.
// The payload shape is {"errors": {field: [messages]}}. Internal errors are
// rendered with an opaque message; the wrapped cause stays server-side.
func Respond(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}

	body := appErr.Fields
	if body == nil {
		msg := appErr.Message
		if appErr.Code == CodeInternal {
			msg = "internal server error"
		}
		body = map[string][]string{errorKey(appErr.Code): {msg}}
	}

	return c.Status(statusFor(appErr.Code)).JSON(fiber.Map{
		"errors": body,
	})
}
