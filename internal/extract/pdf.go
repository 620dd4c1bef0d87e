package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/expenso-app/bill-extraction/constants"
	"github.com/expenso-app/bill-extraction/internal/common"
)

// PDFExtractor reads the embedded text layer of a PDF. Scanned or
// rasterized PDFs yield empty text; rasterizing and OCRing them is out of
// scope here, a documented limitation rather than a silent fallback.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) Extract(ctx context.Context, doc *Document) (Result, error) {
	start := time.Now()
	res := Result{SourceFormat: constants.PDF, Method: "pdf-text"}

	if err := ctx.Err(); err != nil {
		return res, common.ExtractionFailedError("pdf extraction canceled", err)
	}

	text, pages, err := readPDFText(doc.Bytes)
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("extract.pdf.failed", "path", doc.Path, "error", err)
		return res, common.ExtractionFailedError("pdf text layer", err)
	}
	res.Text = NormalizeText(text)
	if res.Text == "" {
		res.Warnings = append(res.Warnings, "pdf has no embedded text layer (scanned document?)")
	}
	e.logger.Debug("extract.pdf.ok", "path", doc.Path, "pages", pages, "bytes", len(res.Text), "elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}

// readPDFText recovers from panics inside the pdf library; malformed files
// can trip it.
func readPDFText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during pdf parse: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf reader: %w", err)
	}
	pages = reader.NumPage()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", pages, fmt.Errorf("extract plain text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", pages, fmt.Errorf("read plain text: %w", err)
	}
	return string(raw), pages, nil
}
