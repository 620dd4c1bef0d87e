package gemini

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/expenso-app/bill-extraction/internal/resilience"
)

// Config for the Gemini client.
type Config struct {
	APIKey     string        // if empty, falls back to env GEMINI_API_KEY
	BaseURL    string        // default https://generativelanguage.googleapis.com/v1beta
	Model      string        // e.g. "gemini-1.5-flash"
	Timeout    time.Duration // per-attempt timeout
	RatePerSec float64       // client-side request rate, 0 = default

	Retry resilience.Config
}

type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	exec    *resilience.Executor
	log     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		exec:    resilience.NewExecutor("gemini.generate_content", cfg.Retry, isRetryable, logger),
		log:     logger,
	}
}
