package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Retryable marks errors worth another attempt (transport failures, 5xx,
// 429). Everything else — parse errors, 4xx, preconditions — fails fast.
type Retryable func(err error) bool

type Executor struct {
	cfg       Config
	retryable Retryable
	breaker   *gobreaker.CircuitBreaker[any]
	logger    *slog.Logger
}

func NewExecutor(operation string, cfg Config, retryable Retryable, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.normalize()
	if retryable == nil {
		retryable = func(error) bool { return false }
	}

	e := &Executor{cfg: cfg, logger: logger}
	if cfg.BreakerEnabled {
		e.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:    operation,
			Timeout: cfg.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cfg.BreakerMinRequests {
					return false
				}
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= cfg.BreakerFailureRatio
			},
			IsSuccessful: func(err error) bool {
				// only transport-class failures count against the breaker
				return err == nil || !retryable(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("resilience.breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
			},
		})
	}
	e.retryable = retryable
	return e
}

// Execute runs fn with retries and, when enabled, behind the breaker.
// Backoff waits honor ctx cancellation.
func (e *Executor) Execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	if e.breaker == nil {
		return e.executeWithRetry(ctx, operation, fn)
	}
	_, err := e.breaker.Execute(func() (any, error) {
		return nil, e.executeWithRetry(ctx, operation, fn)
	})
	return err
}

func (e *Executor) executeWithRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	backoff := e.cfg.InitialBackoff

	var err error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !e.retryable(err) || attempt == e.cfg.MaxAttempts {
			return err
		}

		e.logger.Warn("resilience.retry",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", e.cfg.MaxAttempts,
			"backoff_ms", backoff.Milliseconds(),
			"error", err,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * e.cfg.Multiplier)
		if backoff > e.cfg.MaxBackoff {
			backoff = e.cfg.MaxBackoff
		}
	}
	return err
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
