package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     2,
		BreakerEnabled: false,
	}
}

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestExecuteSucceedsAfterTransientFailures(t *testing.T) {
	e := NewExecutor("op", fastConfig(3), isTransient, nil)

	calls := 0
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestExecuteDoesNotRetryPermanentErrors(t *testing.T) {
	e := NewExecutor("op", fastConfig(5), isTransient, nil)

	permanent := errors.New("bad input")
	calls := 0
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	e := NewExecutor("op", fastConfig(3), isTransient, nil)

	calls := 0
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestExecuteStopsOnContextCancel(t *testing.T) {
	cfg := fastConfig(10)
	cfg.InitialBackoff = time.Hour // cancellation must interrupt the wait
	cfg.MaxBackoff = time.Hour
	e := NewExecutor("op", cfg, isTransient, nil)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- e.Execute(ctx, "op", func(context.Context) error {
			calls++
			return errTransient
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, errTransient) {
			t.Fatalf("got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Execute did not return after cancel")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecuteNilCallback(t *testing.T) {
	e := NewExecutor("op", fastConfig(3), nil, nil)
	if err := e.Execute(context.Background(), "op", nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}

func TestBreakerOpensOnRepeatedTransportFailures(t *testing.T) {
	cfg := fastConfig(1)
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 3
	cfg.BreakerFailureRatio = 0.6
	cfg.BreakerOpenTimeout = time.Minute
	e := NewExecutor("op", cfg, isTransient, nil)

	fail := func(context.Context) error { return errTransient }
	for i := 0; i < 3; i++ {
		_ = e.Execute(context.Background(), "op", fail)
	}

	err := e.Execute(context.Background(), "op", fail)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}

func TestBreakerIgnoresNonRetryableErrors(t *testing.T) {
	cfg := fastConfig(1)
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 3
	cfg.BreakerFailureRatio = 0.6
	cfg.BreakerOpenTimeout = time.Minute
	e := NewExecutor("op", cfg, isTransient, nil)

	permanent := errors.New("bad request")
	for i := 0; i < 10; i++ {
		_ = e.Execute(context.Background(), "op", func(context.Context) error { return permanent })
	}

	err := e.Execute(context.Background(), "op", func(context.Context) error { return permanent })
	if IsCircuitOpen(err) {
		t.Fatal("permanent errors must not trip the breaker")
	}
	if !errors.Is(err, permanent) {
		t.Fatalf("got %v", err)
	}
}
