// Package main probes the relay's health endpoint for container runtimes
// that cannot shell out to curl (distroless images; build with
// CGO_ENABLED=0). It exits 0 when the relay answers 200 and does not report
// itself unhealthy — a degraded journal still counts as alive, since the
// relay keeps forwarding documents without it.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"crptrelay/internal/models"
)

func main() {
	url := os.Getenv("CRPTRELAY_HEALTH_URL")
	if url == "" {
		url = "http://localhost:8080/health"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}

	var health models.HealthCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		os.Exit(1)
	}
	if health.Status == models.StatusUnhealthy {
		os.Exit(1)
	}
}
