package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoriesAndStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		category Category
		status   int
	}{
		{"configuration", NewConfigurationError("n must be >= 1", nil), CategoryConfiguration, http.StatusBadRequest},
		{"validation", NewValidationError("bad body", nil), CategoryValidation, http.StatusBadRequest},
		{"insufficient data", NewInsufficientDataError("need 2 per class", map[string]string{"positive": "1"}), CategoryInsufficientData, http.StatusUnprocessableEntity},
		{"model unavailable", NewModelUnavailableError("models/x.gob", nil), CategoryModelUnavailable, http.StatusServiceUnavailable},
		{"schema mismatch", NewSchemaMismatchError("expected 12 features", nil), CategorySchemaMismatch, http.StatusBadRequest},
		{"not found", NewNotFoundError("session", "abc"), CategoryNotFound, http.StatusNotFound},
		{"internal", NewInternalError("boom", nil), CategoryInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.True(t, Is(tt.err, tt.category))
			assert.Contains(t, tt.err.Error(), string(tt.category))
		})
	}
}

func TestIsThroughWrapping(t *testing.T) {
	base := NewModelUnavailableError("models/screening_model.gob", nil)
	wrapped := fmt.Errorf("open predictor: %w", base)

	assert.True(t, Is(wrapped, CategoryModelUnavailable))
	assert.False(t, Is(wrapped, CategorySchemaMismatch))
	assert.False(t, Is(errors.New("plain"), CategoryInternal))
	assert.False(t, Is(nil, CategoryInternal))
}

func TestCauseIsUnwrapped(t *testing.T) {
	cause := errors.New("file is truncated")
	err := NewModelUnavailableError("m.gob", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "file is truncated")
	assert.Equal(t, "model not trained yet", err.Message())
	assert.Equal(t, "m.gob", Details(err)["path"])
}

func TestToAppError(t *testing.T) {
	assert.Nil(t, ToAppError(nil))

	orig := NewNotFoundError("session", "42")
	assert.Same(t, orig, ToAppError(fmt.Errorf("lookup: %w", orig)))

	converted := ToAppError(errors.New("disk full"))
	assert.Equal(t, CategoryInternal, converted.Category)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
}
