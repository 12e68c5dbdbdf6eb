// Package ratelimit bounds the rate of outbound requests to the CRPT API.
// It provides a blocking admission gate: callers acquire a slot before
// performing a guarded action, and block while the current budget is spent.
// Two strategies are available: a fixed-window counter that is reset by a
// background timer, and a token bucket backed by golang.org/x/time/rate.
package ratelimit

import (
	"context"
	"errors"
)

// Limiter is the admission gate guarding a remote endpoint. Implementations
// must be safe for concurrent use by any number of callers.
type Limiter interface {
	// Acquire blocks until a slot is reserved in the current budget.
	// It returns ctx.Err() if the caller's context is cancelled while
	// waiting, or ErrShutdown once the limiter has been shut down.
	// A reserved slot is consumed; there is nothing to release.
	Acquire(ctx context.Context) error

	// Shutdown stops the limiter's background activity. Safe to call more
	// than once. Pending and subsequent Acquire calls fail with ErrShutdown.
	Shutdown()
}

// Configuration errors reported by limiter constructors.
var (
	ErrInvalidLimit  = errors.New("ratelimit: limit must be positive")
	ErrInvalidWindow = errors.New("ratelimit: window must be positive")
)

// ErrShutdown is returned by Acquire once Shutdown has been called.
var ErrShutdown = errors.New("ratelimit: limiter is shut down")

// Do reserves a slot from l and then runs action exactly once, returning its
// result unchanged. The slot stays consumed even when the action fails;
// admission and action outcome are fully decoupled.
func Do[T any](ctx context.Context, l Limiter, action func() (T, error)) (T, error) {
	if err := l.Acquire(ctx); err != nil {
		var zero T
		return zero, err
	}
	return action()
}
