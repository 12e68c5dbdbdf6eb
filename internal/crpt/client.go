// Package crpt implements a minimal HTTP client for the CRPT (Chestny ZNAK)
// documents API. The relay only speaks one endpoint: documents/create.
package crpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crptrelay/internal/models"
)

const (
	defaultBaseURL = "https://ismp.crpt.ru"
	createPath     = "/api/v3/lk/documents/create"
)

// DocumentCreator is the outbound surface the relay needs from the CRPT API.
type DocumentCreator interface {
	CreateDocument(ctx context.Context, doc *models.Document, signature string) (string, error)
}

// APIError is a non-2xx answer from the CRPT endpoint. The raw body is kept
// verbatim so it can be journaled and shown to the operator.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crpt: api returned status %d: %s", e.StatusCode, e.Body)
}

// Client implements DocumentCreator via direct HTTP.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewClient returns a client with defaults applied.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}

	return &Client{
		BaseURL: url,
		Token:   strings.TrimSpace(token),
		Timeout: timeout,
	}
}

// CreateDocument posts one signed document to the documents/create endpoint
// and returns the raw response body. The detached signature travels in the
// Signature header; the client never inspects it.
func (c *Client) CreateDocument(ctx context.Context, doc *models.Document, signature string) (string, error) {
	if c == nil {
		return "", errors.New("crpt client not configured")
	}
	if doc == nil {
		return "", errors.New("document is required")
	}
	if signature == "" {
		return "", errors.New("signature is required")
	}

	ctx, cancel := withTimeout(ctx, c.Timeout)
	if cancel != nil {
		defer cancel()
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + createPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Signature", signature)
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return string(respBody), nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, nil
	}
	return context.WithTimeout(ctx, timeout)
}
