package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("email is required"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("session not found"), ErrorTypeNotFound, http.StatusNotFound},
		{"forbidden", NewForbiddenError("denied"), ErrorTypeForbidden, http.StatusForbidden},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"bad request", NewBadRequestError("bad"), ErrorTypeBadRequest, http.StatusBadRequest},
		{"rate limited", NewRateLimitedError("slow down"), ErrorTypeRateLimited, http.StatusTooManyRequests},
		{"unavailable", NewUnavailableError("no model"), ErrorTypeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Empty(t, tt.err.Details)
		})
	}
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "validation_error: email is required", NewValidationError("email is required").Error())
	assert.Equal(t, "not_found: ticket not found (id=42)", NewNotFoundError("ticket not found", "id=42").Error())
}

func TestNewUpstreamError(t *testing.T) {
	err := NewUpstreamError(http.StatusTooManyRequests, "ThrottlingException", "rate limited", "Too many tokens")

	assert.Equal(t, ErrorTypeUpstream, err.Type)
	assert.Equal(t, http.StatusTooManyRequests, err.Code)
	assert.Equal(t, "ThrottlingException", err.Upstream)
	assert.Equal(t, "Too many tokens", err.Details)
}

func TestGetAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to load history: %w", NewNotFoundError("session not found"))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.False(t, IsUpstreamError(wrapped))
	assert.True(t, IsAppError(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}
