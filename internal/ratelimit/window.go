package ratelimit

import (
	"context"
	"sync"
	"time"
)

// WindowLimiter admits at most limit acquisitions per fixed window. A
// background goroutine zeroes the counter every window; Acquire never
// decrements it, so slots free up only at window boundaries.
//
// Blocked callers do not poll: each reset closes a broadcast channel, waking
// every waiter to re-check the counter. A waiter therefore observes a freed
// slot within scheduling latency of the reset rather than a polling interval.
type WindowLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	count   int           // admissions in the current window, 0 <= count <= limit
	resetCh chan struct{} // closed and replaced on every reset, guarded by mu

	done     chan struct{}
	shutdown sync.Once
}

// NewWindow creates a limiter admitting limit acquisitions per window and
// starts its reset timer. Callers own the limiter's lifecycle and must call
// Shutdown to stop the timer.
func NewWindow(limit int, window time.Duration) (*WindowLimiter, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	l := &WindowLimiter{
		limit:   limit,
		window:  window,
		resetCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.run()
	return l, nil
}

// Acquire reserves one slot in the current window, blocking until a reset
// frees capacity. Cancellation of ctx fails only this caller's wait; the
// limiter itself stays active, and its lock is never held while blocked.
func (l *WindowLimiter) Acquire(ctx context.Context) error {
	select {
	case <-l.done:
		return ErrShutdown
	default:
	}

	for {
		l.mu.Lock()
		if l.count < l.limit {
			l.count++
			l.mu.Unlock()
			return nil
		}
		reset := l.resetCh
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrShutdown
		case <-reset:
		}
	}
}

// Shutdown stops the reset timer and wakes all blocked waiters with
// ErrShutdown. Idempotent.
func (l *WindowLimiter) Shutdown() {
	l.shutdown.Do(func() {
		close(l.done)
	})
}

// Limit returns the per-window admission budget.
func (l *WindowLimiter) Limit() int {
	return l.limit
}

// Window returns the reset period.
func (l *WindowLimiter) Window() time.Duration {
	return l.window
}

// run drives the periodic reset until Shutdown.
func (l *WindowLimiter) run() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.reset()
		}
	}
}

// reset starts a new window: the counter returns to zero and every waiter
// blocked on the old broadcast channel is woken to retry.
func (l *WindowLimiter) reset() {
	l.mu.Lock()
	l.count = 0
	close(l.resetCh)
	l.resetCh = make(chan struct{})
	l.mu.Unlock()
}
