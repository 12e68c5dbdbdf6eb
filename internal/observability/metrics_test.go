package observability

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crptrelay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServer_ServesScrapeEndpoint(t *testing.T) {
	provider, err := Setup(models.MetricsConfig{Enabled: true}, relayObsConfig(false, "", 0), relayVersion())
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	ms := NewMetricsServer(0, "/metrics", provider, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	ms.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# HELP")
}

func TestMetricsServer_NoProviderAnswers404(t *testing.T) {
	ms := NewMetricsServer(0, "/metrics", nil, nil)
	require.NotNil(t, ms)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	ms.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsServer_StartAndShutdown(t *testing.T) {
	provider, err := Setup(models.MetricsConfig{Enabled: true}, relayObsConfig(false, "", 0), relayVersion())
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	ms := NewMetricsServer(0, "/metrics", provider, slog.New(slog.DiscardHandler))

	errCh := make(chan error, 1)
	go func() {
		errCh <- ms.Start()
	}()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ms.Shutdown(ctx))

	assert.Equal(t, http.ErrServerClosed, <-errCh)
}
