package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("%w: row missing", ErrNotFound)
	appErr := NewAppError(404, "failed to find draft", cause)

	assert.Equal(t, "failed to find draft: resource not found: row missing", appErr.Error())
	assert.True(t, errors.Is(appErr, ErrNotFound))

	var target *AppError
	wrapped := fmt.Errorf("service: %w", appErr)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 404, target.Code)
}

func TestAppError_NoCause(t *testing.T) {
	appErr := NewAppError(500, "boom", nil)
	assert.Equal(t, "boom", appErr.Error())
	assert.Nil(t, errors.Unwrap(appErr))
}
