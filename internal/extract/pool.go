package extract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// OCRWorker recognizes text in one encoded image at a time. Workers are not
// safe for concurrent use; the pool guarantees exclusive access between
// Acquire and Release.
type OCRWorker interface {
	Recognize(imageBytes []byte) (string, error)
	Close() error
}

// WorkerFactory builds one initialized worker. Tests substitute stubs here.
type WorkerFactory func() (OCRWorker, error)

// PoolConfig configures the OCR worker pool.
type PoolConfig struct {
	Size        int    // number of pre-initialized workers
	Language    string // tesseract language, default "eng"
	TessdataDir string
}

// WorkerPool holds pre-initialized OCR workers. Initializing a tesseract
// client is expensive; keeping workers warm replaces the old
// init-per-call behavior.
type WorkerPool struct {
	workers chan OCRWorker
}

// NewWorkerPool pre-initializes cfg.Size workers via factory. Workers
// already created are closed again if a later one fails.
func NewWorkerPool(cfg PoolConfig, factory WorkerFactory) (*WorkerPool, error) {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}
	if factory == nil {
		factory = func() (OCRWorker, error) { return newTesseractWorker(cfg) }
	}
	p := &WorkerPool{workers: make(chan OCRWorker, cfg.Size)}
	for i := 0; i < cfg.Size; i++ {
		w, err := factory()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("init ocr worker %d: %w", i, err)
		}
		p.workers <- w
	}
	return p, nil
}

// Acquire blocks until a worker is free or ctx is done. Every successful
// Acquire must be paired with Release on all exit paths.
func (p *WorkerPool) Acquire(ctx context.Context) (OCRWorker, error) {
	select {
	case w := <-p.workers:
		return w, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a worker to the pool.
func (p *WorkerPool) Release(w OCRWorker) {
	if w == nil {
		return
	}
	p.workers <- w
}

// Close tears down all currently idle workers. Callers must have released
// every worker before closing.
func (p *WorkerPool) Close() {
	for {
		select {
		case w := <-p.workers:
			_ = w.Close()
		default:
			return
		}
	}
}

type tesseractWorker struct {
	client *gosseract.Client
}

func newTesseractWorker(cfg PoolConfig) (OCRWorker, error) {
	client := gosseract.NewClient()
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set language %q: %w", lang, err)
	}
	if cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataDir); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set tessdata dir: %w", err)
		}
	}
	return &tesseractWorker{client: client}, nil
}

func (w *tesseractWorker) Recognize(imageBytes []byte) (string, error) {
	if err := w.client.SetImageFromBytes(imageBytes); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := w.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return text, nil
}

func (w *tesseractWorker) Close() error {
	return w.client.Close()
}
