package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expenso-app/bill-extraction/constants"
	"github.com/expenso-app/bill-extraction/internal/common"
)

// Engine dispatches a document to the extractor for its format.
type Engine struct {
	image  TextExtractor
	pdf    TextExtractor
	docx   TextExtractor
	logger *slog.Logger
}

func NewEngine(image, pdf, docx TextExtractor, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{image: image, pdf: pdf, docx: docx, logger: logger}
}

func (e *Engine) Extract(ctx context.Context, doc *Document) (Result, error) {
	if doc.MIMEType != "" {
		if declared := constants.MapMIMEToFormat(doc.MIMEType); declared != constants.UNSUPPORTED && declared != doc.Format {
			e.logger.Warn("extract.mime_mismatch",
				"path", doc.Path,
				"declared", declared,
				"inferred", doc.Format,
			)
		}
	}

	switch doc.Format {
	case constants.IMAGE:
		return e.image.Extract(ctx, doc)
	case constants.PDF:
		return e.pdf.Extract(ctx, doc)
	case constants.DOCX:
		return e.docx.Extract(ctx, doc)
	default:
		e.logger.Error("extract.unsupported_format", "path", doc.Path, "mime", doc.MIMEType)
		return Result{}, common.UnsupportedFormatError(fmt.Sprintf("no extractor for %q", doc.Path))
	}
}
