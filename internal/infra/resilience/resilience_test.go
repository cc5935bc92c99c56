package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/infra/resilience"
)

func TestRetryWithBackoff_FirstAttemptSucceeds(t *testing.T) {
	cfg := resilience.Config{MaxRetries: 3, InitialBackoff: 10 * time.Millisecond}

	calls := 0
	err := resilience.RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestRetryWithBackoff_RecoversWithinBudget(t *testing.T) {
	cfg := resilience.Config{MaxRetries: 3, InitialBackoff: 10 * time.Millisecond}

	calls := 0
	err := resilience.RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("rate limited")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_ReturnsLastErrorWhenExhausted(t *testing.T) {
	cfg := resilience.Config{MaxRetries: 2, InitialBackoff: 10 * time.Millisecond}

	calls := 0
	err := resilience.RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return errors.New("provider down")
	})

	if err == nil || err.Error() != "provider down" {
		t.Fatalf("expected the provider error after exhaustion, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls (initial + 2 retries), got %d", calls)
	}
}

func TestRetryWithBackoff_StopsOnCancelledContext(t *testing.T) {
	cfg := resilience.Config{MaxRetries: 5, InitialBackoff: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := resilience.RetryWithBackoff(ctx, cfg, func() error {
		return errors.New("never retried")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := resilience.NewCircuitBreaker("quotes", zap.NewNop())

	fail := func() (any, error) { return nil, errors.New("upstream 500") }
	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(fail); err == nil {
			t.Fatalf("call %d: expected failure", i+1)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open state after 3 consecutive failures, got %s", cb.State())
	}

	calls := 0
	_, err := cb.Execute(func() (any, error) {
		calls++
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState while open, got %v", err)
	}
	if calls != 0 {
		t.Error("expected the wrapped call to be short-circuited")
	}
}

func TestCircuitBreaker_PerProviderIsolation(t *testing.T) {
	quotes := resilience.NewCircuitBreaker("quotes", zap.NewNop())
	rates := resilience.NewCircuitBreaker("exchange-rates", zap.NewNop())

	fail := func() (any, error) { return nil, errors.New("upstream 500") }
	for i := 0; i < 3; i++ {
		quotes.Execute(fail)
	}

	if quotes.State() != gobreaker.StateOpen {
		t.Fatalf("expected quotes breaker open, got %s", quotes.State())
	}
	if rates.State() != gobreaker.StateClosed {
		t.Errorf("expected rates breaker untouched, got %s", rates.State())
	}
}

func TestBulkhead_BoundsConcurrency(t *testing.T) {
	bh := resilience.NewBulkhead(2)

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("second acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := bh.Acquire(ctx); err == nil {
		t.Fatal("expected third acquire to block until timeout")
	}

	bh.Release()
	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}

func TestBulkhead_FloorsAtOneSlot(t *testing.T) {
	bh := resilience.NewBulkhead(0)

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected one usable slot, got %v", err)
	}
}
