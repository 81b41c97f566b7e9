package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCompositesAlphaOntoWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})   // fully transparent
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	out := Normalize(src)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, out.NRGBAAt(1, 0))
}

func TestNormalizeHandlesPalettedImages(t *testing.T) {
	pal := color.Palette{color.NRGBA{R: 200, G: 0, B: 0, A: 255}, color.NRGBA{A: 0}}
	src := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	src.SetColorIndex(0, 0, 0)
	src.SetColorIndex(1, 1, 1)

	out := Normalize(src)
	assert.Equal(t, 2, out.Bounds().Dx())
	assert.Equal(t, color.NRGBA{R: 200, G: 0, B: 0, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(1, 1))
}

func TestNormalizeShiftsOriginToZero(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 15, 25))
	out := Normalize(src)
	assert.Equal(t, image.Rect(0, 0, 10, 20), out.Bounds())
}
