package observability

import (
	"context"
	"errors"
	"time"

	"crptrelay/internal/ratelimit"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedLimiter wraps a ratelimit.Limiter with OpenTelemetry tracing
// and metrics. Every Acquire records the time spent waiting for a slot and
// whether the caller was admitted, canceled, or refused.
type InstrumentedLimiter struct {
	inner      ratelimit.Limiter
	tracer     trace.Tracer
	waitTime   metric.Float64Histogram
	admissions metric.Int64Counter
	failures   metric.Int64Counter
}

// NewInstrumentedLimiter creates a limiter wrapper that records trace spans,
// wait-time histograms, and admission/failure counters for every Acquire call.
func NewInstrumentedLimiter(inner ratelimit.Limiter) (*InstrumentedLimiter, error) {
	tracer := otel.Tracer("crptrelay/ratelimit")
	meter := otel.Meter("crptrelay/ratelimit")

	waitTime, err := meter.Float64Histogram(
		"ratelimit.acquire.duration",
		metric.WithDescription("Time spent waiting for a rate limit slot in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	admissions, err := meter.Int64Counter(
		"ratelimit.admissions",
		metric.WithDescription("Number of calls admitted by the rate limiter"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"ratelimit.failures",
		metric.WithDescription("Number of Acquire calls that returned an error"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &InstrumentedLimiter{
		inner:      inner,
		tracer:     tracer,
		waitTime:   waitTime,
		admissions: admissions,
		failures:   failures,
	}, nil
}

// Acquire delegates to the wrapped limiter and records the outcome.
func (l *InstrumentedLimiter) Acquire(ctx context.Context) error {
	ctx, span := l.tracer.Start(ctx, "ratelimit.Acquire")
	start := time.Now()

	err := l.inner.Acquire(ctx)

	elapsed := time.Since(start).Seconds()
	reason := failureReason(err)
	attrs := metric.WithAttributes(attribute.String("outcome", reason))
	l.waitTime.Record(ctx, elapsed, attrs)

	if err != nil {
		l.failures.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		l.admissions.Add(ctx, 1)
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	return err
}

// Shutdown delegates to the wrapped limiter.
func (l *InstrumentedLimiter) Shutdown() {
	l.inner.Shutdown()
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return "admitted"
	case errors.Is(err, ratelimit.ErrShutdown):
		return "shutdown"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	default:
		return "error"
	}
}

// Ensure InstrumentedLimiter satisfies the limiter contract.
var _ ratelimit.Limiter = (*InstrumentedLimiter)(nil)
