// Package resilience wraps the outbound API calls: retry with capped
// exponential backoff, per-provider circuit breakers, and a bulkhead
// that bounds concurrent calls to the generative-AI endpoint.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Config holds the retry and bulkhead parameters shared by the clients.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int
}

// Backoff never grows past this, whatever the attempt count. The rate
// and quote providers throttle aggressively; waiting longer than this
// just burns the caller's request deadline.
const maxBackoff = 2 * time.Second

// RetryWithBackoff runs fn up to 1+MaxRetries times, doubling the wait
// between attempts and adding up to 50% jitter. It stops early when ctx
// is cancelled and returns the last error when attempts run out.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	wait := cfg.InitialBackoff

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}

		if wait > maxBackoff {
			wait = maxBackoff
		}
		jitter := time.Duration(0)
		if wait > 1 {
			jitter = time.Duration(rand.Int63n(int64(wait / 2)))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait + jitter):
		}
		wait *= 2
	}
	return lastErr
}

// NewCircuitBreaker creates a breaker for one external provider. Each
// provider gets its own: a dead quote API must not take the rate or
// agent calls down with it. The breaker trips on a short burst of
// consecutive failures or a sustained failure ratio, and logs every
// state transition.
func NewCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,                // half-open: one trial request
		Interval:    time.Minute,      // closed: reset counters every minute
		Timeout:     30 * time.Second, // open -> half-open after 30s
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 3 {
				return true
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && ratio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Bulkhead bounds concurrent access to a provider. The agent client
// uses it so a burst of insight requests queues instead of fanning out
// into the model API's rate limit.
type Bulkhead struct {
	sem *semaphore.Weighted
}

// NewBulkhead creates a bulkhead admitting maxConcurrency callers at
// once. Values below 1 are treated as 1.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Bulkhead{sem: semaphore.NewWeighted(int64(maxConcurrency))}
}

// Acquire blocks until a slot frees up or ctx is cancelled.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	return b.sem.Acquire(ctx, 1)
}

// Release frees a slot taken by Acquire.
func (b *Bulkhead) Release() {
	b.sem.Release(1)
}
