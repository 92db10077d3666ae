package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure classes the API can surface. Callers
// match with errors.Is; handlers map them to HTTP via AppError.Status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCode        = errors.New("invalid code")
	ErrExpired            = errors.New("expired")
	ErrMalformed          = errors.New("malformed token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInternal           = errors.New("internal error")
)

// AppError is a structured application error with an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a 400 error for malformed or missing input.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// Conflict creates a 409 error for a duplicate resource.
func Conflict(resource, field, value string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// InvalidCredentials creates a 401 error. The message is deliberately the
// same whether the email is unknown or the password is wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidCredentials,
	}
}

// AccountDisabled creates a 403 error for a deactivated account.
func AccountDisabled() *AppError {
	return &AppError{
		Code:    "ACCOUNT_DISABLED",
		Message: "account is deactivated",
		Status:  http.StatusForbidden,
		Err:     ErrAccountDisabled,
	}
}

// NotFound creates a 404 error.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s not found", resource, key),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidCode creates a 400 error for an unknown or already-used one-time code.
func InvalidCode() *AppError {
	return &AppError{
		Code:    "INVALID_CODE",
		Message: "invalid or expired code",
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidCode,
	}
}

// Expired creates a 400 error for an expired code or token.
func Expired(what string) *AppError {
	return &AppError{
		Code:    "EXPIRED",
		Message: what + " has expired",
		Status:  http.StatusBadRequest,
		Err:     ErrExpired,
	}
}

// Malformed creates a 400 error for a structurally invalid or tampered token.
func Malformed() *AppError {
	return &AppError{
		Code:    "MALFORMED",
		Message: "invalid token",
		Status:  http.StatusBadRequest,
		Err:     ErrMalformed,
	}
}

// Unauthorized creates a 403 error for a policy denial.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrUnauthorized,
	}
}

// InvalidRole creates a 400 error for a role outside the valid set.
func InvalidRole(role string) *AppError {
	return &AppError{
		Code:    "INVALID_ROLE",
		Message: fmt.Sprintf("invalid role %q", role),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidRole,
	}
}

// Internal creates an opaque 500 error. The wrapped cause is logged but
// never returned to the caller.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrInternal, err),
	}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrExpired), errors.Is(err, ErrMalformed),
		errors.Is(err, ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccountDisabled), errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
