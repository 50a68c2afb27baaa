package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_StatusMapping(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name       string
		err        *Error
		wantType   ErrorType
		wantStatus int
	}{
		{"validation", ValidationError("text is required"), TypeValidation, http.StatusBadRequest},
		{"internal", InternalError("failed to read history", cause), TypeInternal, http.StatusInternalServerError},
		{"unavailable", UnavailableError("history store unavailable", cause), TypeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus())
			assert.NotNil(t, tt.err.Context)
			assert.Contains(t, tt.err.Error(), string(tt.wantType))
		})
	}
}

func TestError_MessageWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)
	assert.Equal(t, "internal: something went wrong", err.Error())
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestError_UnwrapSupportsIs(t *testing.T) {
	cause := errors.New("root cause")
	err := UnavailableError("postgres not ready", cause)

	assert.ErrorIs(t, err, cause)
}

func TestWithField_ChainsAndInitializesContext(t *testing.T) {
	err := (&Error{Type: TypeValidation, Message: "bad limit"}).
		WithField("limit", -1).
		WithField("max", 200)

	assert.Equal(t, map[string]any{"limit": -1, "max": 200}, err.Context)
}

func TestToResponse(t *testing.T) {
	resp := ValidationError("text is required").WithField("field", "text").ToResponse()

	assert.Equal(t, "text is required", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, "text", resp.Context["field"])
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	original := ValidationError("bad")
	wrapped := fmt.Errorf("handler: %w", original)
	got := AsStructuredError(wrapped)
	require.NotNil(t, got)
	assert.Same(t, original, got)

	plain := errors.New("boom")
	got = AsStructuredError(plain)
	assert.Equal(t, TypeInternal, got.Type)
	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, plain)
}
