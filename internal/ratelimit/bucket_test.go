package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBucket_RejectsInvalidConfig(t *testing.T) {
	l, err := NewBucket(0, time.Second)
	assert.Nil(t, l)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	l, err = NewBucket(3, -time.Second)
	assert.Nil(t, l)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestBucketLimiter_AdmitsBurstThenThrottles(t *testing.T) {
	l, err := NewBucket(3, time.Hour)
	require.NoError(t, err)
	defer l.Shutdown()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Acquire(ctx), context.DeadlineExceeded)
}

func TestBucketLimiter_UnreachableDeadlineYieldsContextError(t *testing.T) {
	// The next token is an hour away, so the deadline can never be met.
	// The caller must still see a plain context error, not an internal
	// one from the rate package.
	l, err := NewBucket(1, time.Hour)
	require.NoError(t, err)
	defer l.Shutdown()

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = l.Acquire(ctx)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestBucketLimiter_ShutdownWakesBlockedWaiter(t *testing.T) {
	l, err := NewBucket(1, time.Hour)
	require.NoError(t, err)

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Acquire(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	l.Shutdown()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrShutdown)
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by shutdown")
	}
}

func TestBucketLimiter_RefillsOverTime(t *testing.T) {
	// 10 tokens per second: after draining the burst a new token
	// arrives within ~100ms.
	l, err := NewBucket(10, time.Second)
	require.NoError(t, err)
	defer l.Shutdown()

	for i := 0; i < 10; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	assert.NoError(t, l.Acquire(ctx))
}

func TestBucketLimiter_AcquireAfterShutdownFailsFast(t *testing.T) {
	l, err := NewBucket(1, time.Second)
	require.NoError(t, err)

	l.Shutdown()
	assert.NotPanics(t, l.Shutdown)
	assert.ErrorIs(t, l.Acquire(context.Background()), ErrShutdown)
}
