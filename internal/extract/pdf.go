package extract

import (
	"context"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/docchamp/docchamp/internal/common"
)

// extractPDF reads the embedded text layer page by page. Scanned PDFs with
// no text layer come back empty and surface as the no-text sentinel.
func (g *Gateway) extractPDF(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", common.NewAppError("PDF_OPEN", "could not open pdf", common.ErrExtraction)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			g.log.Warn("extract.pdf.page_failed", "page", n, "error", err)
			return "", common.NewAppError("PDF_TEXT", "could not read pdf page", common.ErrExtraction)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n"), nil
}
