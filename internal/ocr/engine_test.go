package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecognizeHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewTesseractEngine("", nil)
	_, err := e.Recognize(ctx, []byte("irrelevant"), []string{"eng"})
	assert.ErrorIs(t, err, context.Canceled)
}
