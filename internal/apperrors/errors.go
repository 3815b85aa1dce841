package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidCredentials is returned for any failed password login. It never
// says whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken covers malformed, badly signed, expired, unknown and replayed tokens.
var ErrInvalidToken = errors.New("invalid token")

// ErrUnauthorized indicates a missing credential or an identity that no longer resolves.
var ErrUnauthorized = errors.New("unauthorized")

// ErrMisconfigured is returned when signing material or provider settings are absent.
var ErrMisconfigured = errors.New("server misconfigured")

// AppError carries an HTTP status and a caller-safe message. The wrapped
// error is kept for logging and errors.Is checks but is never serialized.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError reports malformed or missing input (400).
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewConflictError reports a duplicate resource. The HTTP contract uses 400 for this.
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrDuplicate)
}

// NewInvalidCredentialsError reports a failed login (400).
func NewInvalidCredentialsError() *AppError {
	return NewAppError(http.StatusBadRequest, "Invalid credentials", ErrInvalidCredentials)
}

// NewInvalidTokenError reports a token that failed verification or lookup (403).
func NewInvalidTokenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrInvalidToken)
}

// NewUnauthorizedError reports a missing credential or vanished user (401).
func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

// NewInternalServerError hides the cause behind a generic message (500).
func NewInternalServerError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}

// AsAppError returns err as an *AppError, converting anything unknown into
// an internal error so no detail leaks to the caller.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalServerError(err)
}
