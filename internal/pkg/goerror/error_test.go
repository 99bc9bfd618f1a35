package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantType   Type
		wantCode   Code
		wantStatus int
		wantCause  bool
	}{
		{
			name:       "server default message",
			err:        NewServer(cause),
			wantMsg:    "Internal server error",
			wantType:   TypeServer,
			wantCode:   CodeInternal,
			wantStatus: http.StatusInternalServerError,
			wantCause:  true,
		},
		{
			name:       "server custom message",
			err:        NewServer(cause, "Server configuration error"),
			wantMsg:    "Server configuration error",
			wantType:   TypeServer,
			wantCode:   CodeInternal,
			wantStatus: http.StatusInternalServerError,
			wantCause:  true,
		},
		{
			name:       "dependency",
			err:        NewDependency(cause, "Failed to save"),
			wantMsg:    "Failed to save",
			wantType:   TypeDependency,
			wantCode:   CodeInternal,
			wantStatus: http.StatusInternalServerError,
			wantCause:  true,
		},
		{
			name:       "invalid format default",
			err:        NewInvalidFormat(),
			wantMsg:    "Invalid request body",
			wantType:   TypeValidation,
			wantCode:   CodeInvalidFormat,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid format custom",
			err:        NewInvalidFormat("All fields are required."),
			wantMsg:    "All fields are required.",
			wantType:   TypeValidation,
			wantCode:   CodeInvalidFormat,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			var gerr *Error
			require.True(t, errors.As(tt.err, &gerr))

			// Assert
			assert.Equal(t, tt.wantMsg, gerr.Msg())
			assert.Equal(t, tt.wantType, gerr.Type())
			assert.Equal(t, tt.wantCode, gerr.Code())
			assert.Equal(t, tt.wantStatus, gerr.StatusCode())
			assert.Equal(t, tt.wantCause, errors.Is(tt.err, cause))
		})
	}
}

func TestError_ErrorFallsBackToMessage(t *testing.T) {
	// Arrange
	err := NewInvalidFormat("bad input")

	// Act & Assert
	assert.Equal(t, "bad input", err.Error())
	assert.Contains(t, err.(*Error).String(), "ERROR_TYPE_VALIDATION")
}
