package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		status int
		target error
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest, ErrValidation},
		{"conflict", NewConflictError("dup"), http.StatusBadRequest, ErrDuplicate},
		{"credentials", NewInvalidCredentialsError(), http.StatusBadRequest, ErrInvalidCredentials},
		{"token", NewInvalidTokenError("nope"), http.StatusForbidden, ErrInvalidToken},
		{"unauthorized", NewUnauthorizedError("who"), http.StatusUnauthorized, ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Code)
			assert.ErrorIs(t, tc.err, tc.target)
		})
	}
}

func TestAsAppErrorHidesUnknownErrors(t *testing.T) {
	raw := errors.New("connection refused on 10.0.0.5:5432")
	appErr := AsAppError(raw)

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.NotContains(t, appErr.Message, "10.0.0.5")
	assert.ErrorIs(t, appErr, raw)
}

func TestAsAppErrorUnwrapsWrapped(t *testing.T) {
	inner := NewInvalidTokenError("Invalid refresh token")
	wrapped := fmt.Errorf("refresh: %w", inner)

	assert.Same(t, inner, AsAppError(wrapped))
}
