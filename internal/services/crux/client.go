// Package crux talks to the CrUX report backend and fans report requests out
// across many URLs.
package crux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
)

// ReportPath is the backend endpoint that returns CrUX metrics for one URL.
const ReportPath = "/api/crux-report"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// FetchError describes a failed report request for one URL.
type FetchError struct {
	Err        error
	URL        string
	Body       string
	StatusCode int
}

// Error returns the response body when the backend sent one, otherwise the
// underlying error.
func (e *FetchError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher fetches the metrics of a single URL.
type Fetcher interface {
	FetchReport(ctx context.Context, url string) (models.SiteMetrics, error)
}

// Client is an HTTP client for the report backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type reportRequest struct {
	URL string `json:"url"`
}

// FetchReport posts url to the backend and decodes the metric map it returns.
func (c *Client) FetchReport(ctx context.Context, url string) (models.SiteMetrics, error) {
	payload, err := json.Marshal(reportRequest{URL: url})
	if err != nil {
		return models.SiteMetrics{}, &FetchError{URL: url, Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ReportPath, bytes.NewReader(payload))
	if err != nil {
		return models.SiteMetrics{}, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.SiteMetrics{}, &FetchError{URL: url, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return models.SiteMetrics{}, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.SiteMetrics{}, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var metrics models.SiteMetrics
	if err := json.Unmarshal(body, &metrics); err != nil {
		return models.SiteMetrics{}, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return metrics, nil
}
