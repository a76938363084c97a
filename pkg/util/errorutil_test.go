package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad", nil), CodeValidation, http.StatusBadRequest},
		{"duplicate email", NewDuplicateEmail(), CodeDuplicateEmail, http.StatusConflict},
		{"duplicate review", NewDuplicateReview(), CodeDuplicateReview, http.StatusConflict},
		{"duplicate", NewDuplicate("dup", nil), CodeDuplicate, http.StatusConflict},
		{"invalid credentials", NewInvalidCredentials(), CodeInvalidCredentials, http.StatusUnauthorized},
		{"unauthenticated", NewUnauthenticated("no"), CodeUnauthenticated, http.StatusUnauthorized},
		{"forbidden", NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{"not found", NewNotFound("garage", nil), CodeNotFound, http.StatusNotFound},
		{"storage", NewStorageUnavailable(errors.New("down")), CodeStorageUnavailable, http.StatusServiceUnavailable},
		{"internal", NewInternalError(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.status, de.HTTPStatus)
			assert.True(t, IsKind(tt.err, tt.code))
		})
	}
}

func TestToDomainError_WrapsUnknownAsInternal(t *testing.T) {
	de := ToDomainError(errors.New("something odd"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)
}

func TestToDomainError_UnwrapsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("while saving: %w", NewNotFound("customer", nil))
	de := ToDomainError(wrapped)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, "customer not found", de.Message)
}

func TestStorageUnavailable_Unwraps(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewStorageUnavailable(cause)
	assert.ErrorIs(t, err, cause)
}

func TestFromStatus(t *testing.T) {
	assert.Equal(t, CodeNotFound, FromStatus(http.StatusNotFound, "Cannot GET /x").Code)
	assert.Equal(t, CodeValidation, FromStatus(http.StatusBadRequest, "bad").Code)
	assert.Equal(t, CodeInternal, FromStatus(http.StatusTeapot, "tea").Code)
}

func TestIsKind_NonDomainError(t *testing.T) {
	assert.False(t, IsKind(errors.New("plain"), CodeInternal))
	assert.False(t, IsKind(nil, CodeInternal))
}
