package observability

import (
	"context"
	"testing"
	"time"

	"crptrelay/internal/models"
	"crptrelay/internal/ratelimit"
	"crptrelay/internal/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relayVersion is build metadata the way the daemon reports it.
func relayVersion() version.Info {
	return version.Info{
		Version:    "1.4.0",
		GitCommit:  "a1b2c3d",
		BuildDate:  "2026-08-01T00:00:00Z",
		InstanceID: "relay-test-instance",
		Hostname:   "relay-host",
	}
}

func relayObsConfig(tracing bool, exporter string, sampleRate float64) models.ObservabilityConfig {
	return models.ObservabilityConfig{
		ServiceName: "crptrelay",
		Tracing: models.TracingConfig{
			Enabled:    tracing,
			Exporter:   exporter,
			SampleRate: sampleRate,
		},
	}
}

func TestSetup_ProviderCombinations(t *testing.T) {
	tests := []struct {
		name        string
		metrics     bool
		tracing     bool
		wantTracer  bool
		wantMetrics bool
	}{
		{name: "metrics only", metrics: true, wantMetrics: true},
		{name: "tracing only", tracing: true, wantTracer: true},
		{name: "both enabled", metrics: true, tracing: true, wantMetrics: true, wantTracer: true},
		{name: "both disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := models.MetricsConfig{Enabled: tt.metrics, Path: "/metrics", Port: 9090}
			obs := relayObsConfig(tt.tracing, "stdout", 1.0)

			provider, err := Setup(metrics, obs, relayVersion())
			require.NoError(t, err)
			require.NotNil(t, provider)

			if tt.wantTracer {
				assert.NotNil(t, provider.tracerProvider)
			} else {
				assert.Nil(t, provider.tracerProvider)
			}
			if tt.wantMetrics {
				assert.NotNil(t, provider.PrometheusExporter())
			} else {
				assert.Nil(t, provider.PrometheusExporter())
			}

			assert.NoError(t, provider.Shutdown(context.Background()))
		})
	}
}

func TestSetup_LimiterInstrumentsUsable(t *testing.T) {
	// With metrics enabled the global meter provider must accept the
	// limiter's instruments: the wrapper is constructed after Setup in the
	// daemon, and its instrument registration must not fail.
	provider, err := Setup(models.MetricsConfig{Enabled: true}, relayObsConfig(false, "", 0), relayVersion())
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	inner, err := ratelimit.NewWindow(1, time.Hour)
	require.NoError(t, err)
	defer inner.Shutdown()

	instrumented, err := NewInstrumentedLimiter(inner)
	require.NoError(t, err)
	require.NoError(t, instrumented.Acquire(context.Background()))
}

func TestSetup_UnknownTraceExporter(t *testing.T) {
	provider, err := Setup(models.MetricsConfig{}, relayObsConfig(true, "jaeger", 1.0), relayVersion())
	assert.Nil(t, provider)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want string
	}{
		{name: "full sampling", rate: 1.0, want: "AlwaysOnSampler"},
		{name: "over full", rate: 2.5, want: "AlwaysOnSampler"},
		{name: "disabled", rate: 0, want: "AlwaysOffSampler"},
		{name: "negative", rate: -1, want: "AlwaysOffSampler"},
		{name: "ratio", rate: 0.25, want: "TraceIDRatioBased"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, samplerFor(tt.rate).Description(), tt.want)
		})
	}
}

func TestProvider_ShutdownWithNothingEnabled(t *testing.T) {
	p := &Provider{}
	assert.NoError(t, p.Shutdown(context.Background()))
}
