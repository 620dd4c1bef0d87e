// Package pipeline wires format detection, text extraction, and field
// parsing into one stateless service. Construction is explicit dependency
// injection; there is no package-level instance or hidden lifecycle.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expenso-app/bill-extraction/constants"
	"github.com/expenso-app/bill-extraction/internal/common"
	"github.com/expenso-app/bill-extraction/internal/expense"
	"github.com/expenso-app/bill-extraction/internal/extract"
	"github.com/expenso-app/bill-extraction/internal/heuristic"
	"github.com/expenso-app/bill-extraction/internal/llm"
)

// Service processes one uploaded bill per call. Calls are independent and
// may run concurrently; the OCR worker pool inside the engine is the only
// shared resource.
type Service struct {
	engine extract.TextExtractor
	ai     llm.FieldExtractor // nil when no AI path is configured
	logger *slog.Logger
}

func NewService(engine extract.TextExtractor, ai llm.FieldExtractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: engine, ai: ai, logger: logger}
}

// ProcessFile loads the file at path and runs Process. The file stays on
// disk; deleting it after processing is the caller's job.
func (s *Service) ProcessFile(ctx context.Context, path, declaredMIME string, useAI bool) (expense.Candidate, error) {
	doc, err := extract.LoadDocument(path, declaredMIME)
	if err != nil {
		return expense.Candidate{}, err
	}
	return s.Process(ctx, doc, useAI)
}

// Process turns a document into a structured expense candidate. With useAI
// the adapter's errors (missing key, parse failure) surface to the caller
// unchanged — the caller decides whether to retry on the heuristic path;
// conflating them here would hide the distinct error codes.
func (s *Service) Process(ctx context.Context, doc *extract.Document, useAI bool) (expense.Candidate, error) {
	rid := uuid.New().String()
	start := time.Now()

	if doc.Format == constants.UNSUPPORTED {
		s.logger.Warn("pipeline.unsupported_format", "req_id", rid, "path", doc.Path, "mime", doc.MIMEType)
		return expense.Candidate{}, common.UnsupportedFormatError(fmt.Sprintf("unsupported file type: %q", doc.Path))
	}

	if useAI {
		if s.ai == nil {
			return expense.Candidate{}, common.MissingAPIKeyError()
		}
		candidate, _, err := s.ai.Extract(ctx, doc)
		if err != nil {
			return expense.Candidate{}, err
		}
		s.logger.Info("pipeline.ai.ok",
			"req_id", rid,
			"category", candidate.Category,
			"amount", candidate.Amount,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return candidate, nil
	}

	res, err := s.engine.Extract(ctx, doc)
	if err != nil {
		s.logger.Error("pipeline.extract.failed", "req_id", rid, "path", doc.Path, "error", err)
		return expense.Candidate{}, err
	}
	for _, w := range res.Warnings {
		s.logger.Warn("pipeline.extract.warning", "req_id", rid, "warning", w)
	}

	candidate := heuristic.Parse(res.Text)
	s.logger.Info("pipeline.heuristic.ok",
		"req_id", rid,
		"method", res.Method,
		"category", candidate.Category,
		"amount", candidate.Amount,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return candidate, nil
}
