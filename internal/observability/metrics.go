package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes the relay's Prometheus metrics on a port separate
// from the submission API, so scrapes never compete with blocked submits
// for connections.
type MetricsServer struct {
	server *http.Server
	path   string
	logger *slog.Logger
}

// NewMetricsServer creates the scrape endpoint. A nil provider (or one
// without metrics enabled) yields a server that answers 404 on every path,
// which keeps the caller's wiring unconditional.
func NewMetricsServer(port int, path string, provider *Provider, logger *slog.Logger) *MetricsServer {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	if provider != nil && provider.PrometheusExporter() != nil {
		mux.Handle(path, promhttp.Handler())
	}

	return &MetricsServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		path:   path,
		logger: logger,
	}
}

// Handler returns the scrape handler, mainly so tests can exercise the
// endpoint without binding a port.
func (ms *MetricsServer) Handler() http.Handler {
	return ms.server.Handler
}

// Start serves scrapes until Shutdown; it returns http.ErrServerClosed
// after a graceful stop.
func (ms *MetricsServer) Start() error {
	ms.logger.Info("metrics server listening", "addr", ms.server.Addr, "path", ms.path)
	return ms.server.ListenAndServe()
}

// Shutdown stops the metrics server, waiting for in-flight scrapes.
func (ms *MetricsServer) Shutdown(ctx context.Context) error {
	return ms.server.Shutdown(ctx)
}
