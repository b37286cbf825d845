package google

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "provider message",
			err:         &googleapi.Error{Code: 404, Message: "Task list not found."},
			wantStatus:  404,
			wantMessage: "Task list not found.",
		},
		{
			name:        "no provider message",
			err:         &googleapi.Error{Code: 502, Body: "<html>bad gateway</html>"},
			wantStatus:  502,
			wantMessage: "API Error: 502",
		},
		{
			name:        "wrapped provider error",
			err:         fmt.Errorf("call failed: %w", &googleapi.Error{Code: 403, Message: "Insufficient Permission"}),
			wantStatus:  403,
			wantMessage: "Insufficient Permission",
		},
		{
			name:        "transport failure",
			err:         errors.New("dial tcp: connection refused"),
			wantStatus:  0,
			wantMessage: "dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NormalizeError(tt.err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Error())
		})
	}
}

func TestNormalizeError_Nil(t *testing.T) {
	assert.NoError(t, NormalizeError(nil))
}

func TestNormalizeError_Idempotent(t *testing.T) {
	first := NormalizeError(&googleapi.Error{Code: 500})
	assert.Same(t, first, NormalizeError(first))
}

func TestNormalizeError_KeepsCause(t *testing.T) {
	err := NormalizeError(fmt.Errorf("request: %w", context.Canceled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(NormalizeError(&googleapi.Error{Code: 401})))
	assert.False(t, IsUnauthorized(NormalizeError(&googleapi.Error{Code: 403})))
	assert.False(t, IsUnauthorized(errors.New("plain")))
}
