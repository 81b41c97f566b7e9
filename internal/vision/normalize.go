package vision

import (
	"image"
	"image/color"
	"image/draw"
)

// Normalize canonicalizes the color mode of a decoded image. Detection and
// OCR operate only on RGB or grayscale data, so alpha and palette modes are
// composited onto a white background; everything else is converted in place.
// The result is always an opaque NRGBA image with the same dimensions.
func Normalize(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
