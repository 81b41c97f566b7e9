package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/docchamp/docchamp/constants"
	"github.com/docchamp/docchamp/internal/common"
	"github.com/docchamp/docchamp/internal/ocr"
	"github.com/docchamp/docchamp/internal/vision"
)

// NoTextSentinel is returned as the extracted text when a document decodes
// and processes cleanly but recognition yields nothing. It lets downstream
// consumers distinguish "blank document" from a pipeline failure.
const NoTextSentinel = "No text was detected in the document."

// Result is the outcome of a successful extraction.
type Result struct {
	// Text is the extracted plain text, or NoTextSentinel.
	Text string
	// Format is the routed document class, constants.PDF or constants.IMAGE.
	Format string
	// Filename echoes the input name.
	Filename string
}

// Gateway routes an uploaded document to the right extraction path: embedded
// text for PDFs, the vision+OCR pipeline for images. A nil Detector disables
// receipt-region detection and runs OCR on the full frame.
type Gateway struct {
	engine   ocr.Engine
	detector vision.Detector
	cfg      common.OCRConfig
	log      *slog.Logger
}

func NewGateway(engine ocr.Engine, detector vision.Detector, cfg common.OCRConfig, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{engine: engine, detector: detector, cfg: cfg, log: logger}
}

// Extract pulls text out of data. Routing uses the sniffed MIME type first
// and the filename extension as a tiebreaker, so a misnamed file still lands
// on the right path.
func (g *Gateway) Extract(ctx context.Context, filename string, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, common.NewAppError("EMPTY_FILE", "document is empty", common.ErrInvalidInput)
	}
	start := time.Now()
	mime := mimetype.Detect(data)
	ext := filepath.Ext(filename)
	g.log.Debug("extract.start", "filename", filename, "mime", mime.String(), "bytes", len(data))

	var (
		text   string
		format string
		err    error
	)
	switch {
	case mime.Is("application/pdf") || constants.NormalizeExt(ext) == "pdf":
		format = constants.PDF
		text, err = g.extractPDF(ctx, data)
	case strings.HasPrefix(mime.String(), "image/") || constants.MapExtToFormat(ext) == constants.IMAGE || constants.IsHEICExt(ext):
		format = constants.IMAGE
		text, err = g.extractImage(ctx, data)
	default:
		return nil, common.NewAppError("UNSUPPORTED_FORMAT",
			"unsupported document type "+mime.String(), common.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = NoTextSentinel
	}
	g.log.Info("extract.done",
		"filename", filename,
		"format", format,
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds())
	return &Result{Text: text, Format: format, Filename: filename}, nil
}
