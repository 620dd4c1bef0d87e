// billextract runs the extraction pipeline against one file and prints the
// resulting expense candidate as JSON. Debug/batch tool; the service layer
// calling the pipeline in production is elsewhere.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/expenso-app/bill-extraction/internal/common"
	"github.com/expenso-app/bill-extraction/internal/extract"
	"github.com/expenso-app/bill-extraction/internal/llm"
	"github.com/expenso-app/bill-extraction/internal/llm/gemini"
	"github.com/expenso-app/bill-extraction/internal/pipeline"
	"github.com/expenso-app/bill-extraction/internal/resilience"
)

func main() {
	var (
		mimeType = flag.String("mime", "", "declared MIME type of the file")
		useAI    = flag.Bool("ai", false, "use the multimodal AI path instead of heuristics")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: billextract [-ai] [-mime type] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool, err := extract.NewWorkerPool(extract.PoolConfig{
		Size:        cfg.OCR.PoolSize,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, nil)
	if err != nil {
		logger.Error("init ocr pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	engine := extract.NewEngine(
		extract.NewImageExtractor(pool, cfg.OCR.Language, cfg.OCR.Timeout, logger),
		extract.NewPDFExtractor(logger),
		extract.NewDOCXExtractor(logger),
		logger,
	)

	var ai llm.FieldExtractor
	if cfg.AI.APIKey != "" {
		retry := resilience.DefaultConfig()
		retry.MaxAttempts = cfg.AI.MaxAttempts
		ai = gemini.NewClient(gemini.Config{
			APIKey:     cfg.AI.APIKey,
			BaseURL:    cfg.AI.BaseURL,
			Model:      cfg.AI.Model,
			Timeout:    cfg.AI.Timeout,
			RatePerSec: cfg.AI.RatePerSec,
			Retry:      retry,
		}, logger)
	}

	svc := pipeline.NewService(engine, ai, logger)

	candidate, err := svc.ProcessFile(ctx, path, *mimeType, *useAI)
	if err != nil {
		logger.Error("extraction failed", "path", path, "code", common.ErrorCode(err), "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		logger.Error("encode candidate", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
