package extract

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"

	"github.com/expenso-app/bill-extraction/constants"
	"github.com/expenso-app/bill-extraction/internal/common"
)

// ImageExtractor runs OCR over raw image bytes using pooled tesseract
// workers.
type ImageExtractor struct {
	pool     *WorkerPool
	language string
	timeout  time.Duration
	logger   *slog.Logger
}

func NewImageExtractor(pool *WorkerPool, language string, timeout time.Duration, logger *slog.Logger) *ImageExtractor {
	if language == "" {
		language = "eng"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageExtractor{pool: pool, language: language, timeout: timeout, logger: logger}
}

func (e *ImageExtractor) Extract(ctx context.Context, doc *Document) (Result, error) {
	start := time.Now()
	res := Result{SourceFormat: constants.IMAGE, Method: "image-ocr", Language: e.language}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prepared, warn := preprocessImage(doc.Bytes)
	if warn != "" {
		res.Warnings = append(res.Warnings, warn)
	}

	worker, err := e.pool.Acquire(ctx)
	if err != nil {
		return res, common.ExtractionFailedError("acquire ocr worker", err)
	}

	type recResult struct {
		text string
		err  error
	}
	done := make(chan recResult, 1)
	go func() {
		text, rerr := worker.Recognize(prepared)
		done <- recResult{text: text, err: rerr}
	}()

	select {
	case <-ctx.Done():
		// The worker is still busy inside the cgo call; hand it back only
		// once recognition returns.
		go func() {
			<-done
			e.pool.Release(worker)
		}()
		res.Duration = time.Since(start)
		e.logger.Warn("extract.ocr.timeout", "path", doc.Path, "elapsed_ms", res.Duration.Milliseconds())
		return res, common.ExtractionFailedError("ocr timed out", ctx.Err())
	case r := <-done:
		e.pool.Release(worker)
		res.Duration = time.Since(start)
		if r.err != nil {
			e.logger.Error("extract.ocr.failed", "path", doc.Path, "error", r.err)
			return res, common.ExtractionFailedError("image ocr", r.err)
		}
		res.Text = NormalizeText(r.text)
		e.logger.Debug("extract.ocr.ok", "path", doc.Path, "bytes", len(res.Text), "elapsed_ms", res.Duration.Milliseconds())
		return res, nil
	}
}

// preprocessImage applies light cleanup before recognition: grayscale,
// contrast boost, and upscaling small receipts. Falls back to the raw
// bytes when the image cannot be decoded (tesseract may still manage).
func preprocessImage(raw []byte) ([]byte, string) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return raw, "image preprocess skipped: " + err.Error()
	}
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	if gray.Bounds().Dy() < 900 {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return raw, "image re-encode skipped: " + err.Error()
	}
	return buf.Bytes(), ""
}
