package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    HTTPStatuser
		status int
	}{
		{"validation", NewValidationError(CodeNoFilePart, "file", "No file part"), http.StatusBadRequest},
		{"not found", NewNotFoundError("result", "ID not found"), http.StatusNotFound},
		{"already exists", NewAlreadyExistsError("user", ""), http.StatusConflict},
		{"storage", NewStorageError("Failed to save file", nil), http.StatusInternalServerError},
		{"provider", NewProviderError("Failed to classify image", nil), http.StatusBadGateway},
		{"unauthorized", NewUnauthorizedError("login required"), http.StatusUnauthorized},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("saving upload: %w", NewStorageError("Failed to save file", cause))

	var storageErr *StorageError
	require.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "disk full", storageErr.Detail())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to save file: disk full", storageErr.Error())
}

func TestProviderError_Detail(t *testing.T) {
	err := NewProviderError("Failed to classify image", stderrors.New("Image load failed"))
	assert.Equal(t, "Image load failed", err.Detail)
	assert.Contains(t, err.Error(), "Image load failed")

	bare := NewProviderError("Failed to classify image", nil)
	assert.Equal(t, "Failed to classify image", bare.Error())
}

func TestNotFoundError_DefaultMessage(t *testing.T) {
	assert.Equal(t, "result not found", NewNotFoundError("result", "").Error())
}
