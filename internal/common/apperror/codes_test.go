package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("Invalid post specified")
	assert.Equal(t, "[NOT_FOUND] Invalid post specified", err.Error())

	cause := errors.New("connection refused")
	err = Internal("failed to list posts", cause)
	assert.Equal(t, "[INTERNAL] failed to list posts: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestAs(t *testing.T) {
	t.Run("WrappedAppError", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", Forbidden("not yours"))
		appErr := As(wrapped)
		require.NotNil(t, appErr)
		assert.Equal(t, CodeForbidden, appErr.Code)
		assert.Equal(t, "not yours", appErr.PublicMessage())
	})

	t.Run("PlainErrorBecomesInternal", func(t *testing.T) {
		appErr := As(errors.New("dial tcp: timeout"))
		assert.Equal(t, CodeInternal, appErr.Code)
		assert.Equal(t, InternalMessage, appErr.PublicMessage())
	})
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(Duplicate("taken"), CodeDuplicate))
	assert.False(t, IsCode(Duplicate("taken"), CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeInternal))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		code     Code
		expected int
	}{
		{CodeValidation, http.StatusUnprocessableEntity},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeDuplicate, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusOf(tt.code))
		})
	}
}
