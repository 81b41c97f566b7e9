package extract

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/gen2brain/heic"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/docchamp/docchamp/internal/common"
	"github.com/docchamp/docchamp/internal/vision"
)

// extractImage runs the full photo pipeline: decode, color normalization,
// optional receipt-region detection, enhancement, and the OCR language
// ladder.
func (g *Gateway) extractImage(ctx context.Context, data []byte) (string, error) {
	img, err := decodeImage(data)
	if err != nil {
		return "", common.NewAppError("IMAGE_DECODE", "could not decode image", common.ErrInvalidInput)
	}

	normalized := vision.Normalize(img)
	var working image.Image = normalized
	if g.detector != nil {
		working = g.detector.DetectAndCrop(normalized)
	}
	prepared := vision.PreprocessForOCR(working)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return "", common.NewAppError("IMAGE_ENCODE", "could not encode image for ocr", common.ErrExtraction)
	}
	return g.recognizeWithFallback(ctx, buf.Bytes())
}

// recognizeWithFallback walks the language ladder: the bilingual primary
// set, then the single fallback language, then the engine default. The next
// rung is tried only when the engine itself errors, never on empty output.
func (g *Gateway) recognizeWithFallback(ctx context.Context, img []byte) (string, error) {
	attempts := [][]string{
		splitLanguages(g.cfg.PrimaryLanguages),
		splitLanguages(g.cfg.FallbackLanguage),
		nil,
	}
	var lastErr error
	for i, langs := range attempts {
		if i > 0 && equalLanguages(langs, attempts[i-1]) {
			continue
		}
		text, err := g.engine.Recognize(ctx, img, langs)
		if err == nil {
			return text, nil
		}
		lastErr = err
		g.log.Warn("extract.ocr.fallback", "languages", langs, "error", err)
	}
	return "", common.NewAppError("OCR_FAILED",
		"text recognition failed: "+lastErr.Error(), common.ErrExtraction)
}

// decodeImage handles HEIC/HEIF through a dedicated decoder; everything else
// goes through the registered stdlib and x/image formats. Header validation
// runs first but a failure there does not reject the file: some encoders
// write headers that fail strict checks yet decode fine.
func decodeImage(data []byte) (image.Image, error) {
	if isHEIC(data) {
		return heic.Decode(bytes.NewReader(data))
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		slog.Debug("extract.image.header_invalid", "error", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// isHEIC sniffs the ISO-BMFF ftyp box for an HEIC/HEIF brand.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "hevc", "hevx", "heim", "heis", "hevm", "hevs", "mif1", "msf1":
		return true
	}
	return false
}

func splitLanguages(spec string) []string {
	if strings.TrimSpace(spec) == "" {
		return nil
	}
	parts := strings.Split(spec, "+")
	langs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}

func equalLanguages(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
