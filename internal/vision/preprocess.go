package vision

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Tuned for receipt text. ContrastFactor and SharpnessFactor are PIL-style
// enhancement multipliers; contrast maps onto imaging's percentage parameter
// as (factor-1)*100 and sharpness onto a sharpen sigma of factor-1.
const (
	// AutocontrastCutoff clips this percentage from each end of the
	// luminance histogram before stretching.
	AutocontrastCutoff = 1.0
	ContrastFactor     = 1.3
	SharpnessFactor    = 1.5
)

// PreprocessForOCR runs the fixed enhancement pipeline ahead of text
// recognition: single-channel luminance, automatic contrast stretch, contrast
// boost, sharpening, and back to an opaque RGB representation for the OCR
// engine. Deterministic; no branching on content.
func PreprocessForOCR(img image.Image) *image.NRGBA {
	gray := imaging.Grayscale(img)
	gray = autocontrast(gray, AutocontrastCutoff)
	gray = imaging.AdjustContrast(gray, (ContrastFactor-1)*100)
	gray = imaging.Sharpen(gray, SharpnessFactor-1)
	return gray
}

// autocontrast stretches the luminance histogram, ignoring the darkest and
// brightest cutoff percent of pixels when picking the stretch endpoints.
func autocontrast(img *image.NRGBA, cutoff float64) *image.NRGBA {
	var hist [256]int
	total := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			// Grayscale input, so the red channel carries luminance.
			hist[row[x*4]]++
			total++
		}
	}
	if total == 0 {
		return img
	}

	clip := int(float64(total) * cutoff / 100)
	lo, hi := 0, 255
	for acc := 0; lo < 255; lo++ {
		acc += hist[lo]
		if acc > clip {
			break
		}
	}
	for acc := 0; hi > 0; hi-- {
		acc += hist[hi]
		if acc > clip {
			break
		}
	}
	if hi <= lo {
		return img
	}

	scale := 255.0 / float64(hi-lo)
	var lut [256]uint8
	for i := range lut {
		v := float64(i-lo) * scale
		switch {
		case v < 0:
			lut[i] = 0
		case v > 255:
			lut[i] = 255
		default:
			lut[i] = uint8(v + 0.5)
		}
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}
