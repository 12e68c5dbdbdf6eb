package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BucketLimiter is the token-bucket strategy: the same limit-per-window
// budget, but refilled continuously instead of all at once on a reset.
// Admissions are spread across the window, which avoids the burst of
// traffic a fixed window sends right after each reset.
type BucketLimiter struct {
	rl *rate.Limiter

	done     chan struct{}
	shutdown sync.Once
}

// NewBucket creates a token-bucket limiter equivalent to limit acquisitions
// per window, with burst capacity of the full budget.
func NewBucket(limit int, window time.Duration) (*BucketLimiter, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	return &BucketLimiter{
		rl:   rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), limit),
		done: make(chan struct{}),
	}, nil
}

// Acquire blocks until a token is available. Unlike WindowLimiter there is
// no background timer: tokens refill on the caller's clock, so a waiter
// already inside Acquire when Shutdown is called still completes its wait.
func (b *BucketLimiter) Acquire(ctx context.Context) error {
	select {
	case <-b.done:
		return ErrShutdown
	default:
	}

	if err := b.rl.Wait(ctx); err != nil {
		// Wait reports its own error as soon as it can prove the deadline
		// falls before the next token, while ctx.Err() is still nil. Callers
		// only ever see ctx.Err() or ErrShutdown, so wait out the context
		// instead of leaking the library error.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return ErrShutdown
		}
	}
	return nil
}

// Shutdown marks the limiter as stopped. Idempotent.
func (b *BucketLimiter) Shutdown() {
	b.shutdown.Do(func() {
		close(b.done)
	})
}
