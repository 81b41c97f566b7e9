package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := NewAppError("OCR_FAILED", "text recognition failed", ErrExtraction)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Contains(t, err.Error(), "OCR_FAILED")
	assert.Contains(t, err.Error(), "text recognition failed")
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := &AppError{Code: "X", Message: "y"}
	assert.Equal(t, "X: y", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	wrapped := WrapError(ErrInvalidInput, "reading upload")
	assert.ErrorIs(t, wrapped, ErrInvalidInput)
	assert.Contains(t, wrapped.Error(), "reading upload")
}
