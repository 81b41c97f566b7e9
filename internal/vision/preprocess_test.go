package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(64 + (x*128)/w)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestPreprocessForOCRKeepsDimensions(t *testing.T) {
	src := gradientImage(120, 80)
	out := PreprocessForOCR(src)
	require.NotNil(t, out)
	assert.Equal(t, 120, out.Bounds().Dx())
	assert.Equal(t, 80, out.Bounds().Dy())
}

func TestPreprocessForOCRIsDeterministic(t *testing.T) {
	src := gradientImage(64, 64)
	a := PreprocessForOCR(src)
	b := PreprocessForOCR(src)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestPreprocessForOCRProducesOpaqueGrayscale(t *testing.T) {
	src := gradientImage(32, 32)
	out := PreprocessForOCR(src)
	for i := 0; i < len(out.Pix); i += 4 {
		assert.Equal(t, out.Pix[i], out.Pix[i+1])
		assert.Equal(t, out.Pix[i], out.Pix[i+2])
		assert.EqualValues(t, 255, out.Pix[i+3])
	}
}

func TestAutocontrastStretchesNarrowHistogram(t *testing.T) {
	// Mid-gray band from 100 to 150 should expand toward the full range.
	src := image.NewNRGBA(image.Rect(0, 0, 100, 1))
	for x := 0; x < 100; x++ {
		v := uint8(100 + x/2)
		src.SetNRGBA(x, 0, color.NRGBA{R: v, G: v, B: v, A: 255})
	}
	out := autocontrast(src, 0)
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] < lo {
			lo = out.Pix[i]
		}
		if out.Pix[i] > hi {
			hi = out.Pix[i]
		}
	}
	assert.EqualValues(t, 0, lo)
	assert.EqualValues(t, 255, hi)
}

func TestAutocontrastFlatImageUnchanged(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = 128
	}
	out := autocontrast(src, 1.0)
	assert.Equal(t, src.Pix, out.Pix)
}
