package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError("name is blank"), http.StatusBadRequest},
		{"duplicate email", NewEmailAlreadyExistsError("a@b.c"), http.StatusBadRequest},
		{"recipe", NewRecipeNotFoundError(7), http.StatusNotFound},
		{"user", NewUserNotFoundError("id 3"), http.StatusNotFound},
		{"pantry item", NewPantryItemNotFoundError(9), http.StatusNotFound},
		{"database", NewDatabaseError("load recipes", fmt.Errorf("boom")), http.StatusInternalServerError},
		{"throttled", NewAppError(CodeTooManyRequests, "Too many requests", ""), http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	// Arrange
	appErr := NewRecipeNotFoundError(42)
	wrapped := fmt.Errorf("loading detail: %w", appErr)

	// Act
	got, ok := As(wrapped)

	// Assert
	require.True(t, ok)
	assert.Same(t, appErr, got)
	assert.True(t, Is(wrapped, CodeRecipeNotFound))
	assert.Equal(t, CodeRecipeNotFound, GetCode(wrapped))
	assert.Equal(t, int64(42), got.Metadata["recipe_id"])
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "ignored"))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := stderrors.New("disk on fire")

		got := Wrap(cause, "could not rank recipes")

		assert.Equal(t, CodeInternal, got.Code)
		assert.Equal(t, "could not rank recipes", got.Message)
		assert.ErrorIs(t, got, cause)
	})

	t.Run("app error passes through", func(t *testing.T) {
		appErr := NewValidationError("blank")

		assert.Same(t, appErr, Wrap(appErr, "other"))
	})
}

func TestToErrorResponse(t *testing.T) {
	t.Run("single message", func(t *testing.T) {
		resp := ToErrorResponse(NewRecipeNotFoundError(1), "req-1")

		assert.Equal(t, "Recipe not found", resp.Error)
		assert.Equal(t, CodeRecipeNotFound, resp.Code)
		assert.Equal(t, "req-1", resp.RequestID)
		assert.Nil(t, resp.Errors)
	})

	t.Run("field errors", func(t *testing.T) {
		fields := FieldErrors{}
		fields.Add("ingredient.name", "can't be blank")

		resp := ToErrorResponse(NewFieldValidationError(fields), "")

		assert.Equal(t, "Validation failed", resp.Error)
		assert.Equal(t, []string{"can't be blank"}, resp.Errors["ingredient.name"])
	})
}

func TestNewNotFoundError_CapitalizesResource(t *testing.T) {
	assert.Equal(t, "Category not found", NewNotFoundError("category").Message)
	assert.Equal(t, "Resource not found", NewNotFoundError("").Message)
}
