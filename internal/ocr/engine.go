package ocr

import (
	"context"
	"log/slog"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// Engine turns an encoded image into plain text. Implementations receive the
// image as encoded bytes (PNG in practice) and a Tesseract-style language
// list; an empty list means the engine default.
type Engine interface {
	Recognize(ctx context.Context, img []byte, languages []string) (string, error)
}

// TesseractEngine recognizes text through a locally installed Tesseract. A
// fresh client is created per call; the underlying API is not safe for
// concurrent reuse.
type TesseractEngine struct {
	tessdataDir string
	log         *slog.Logger
}

func NewTesseractEngine(tessdataDir string, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractEngine{tessdataDir: tessdataDir, log: logger}
}

func (e *TesseractEngine) Recognize(ctx context.Context, img []byte, languages []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()

	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdataDir != "" {
		if err := client.SetTessdataPrefix(e.tessdataDir); err != nil {
			return "", err
		}
	}
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return "", err
		}
	}
	// Receipts are a single column of text.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", err
	}

	text, err := client.Text()
	if err != nil {
		e.log.Warn("ocr.recognize.failed", "languages", languages, "error", err)
		return "", err
	}
	e.log.Debug("ocr.recognize.done",
		"languages", languages,
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}
