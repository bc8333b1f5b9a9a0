// Package queryclient talks to the backend query service.
package queryclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/database-playground/query-console/internal/config"
	"github.com/database-playground/query-console/internal/httputils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UserAgent identifies the console to the query service.
var UserAgent = "query-console"

type Client struct {
	client *http.Client
	cfg    config.BackendConfig
}

func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: otelhttp.NewTransport(httputils.UserAgentTransport{
				UserAgent: UserAgent,
				Base:      http.DefaultTransport,
			}),
		},
	}
}

// Query posts the query text as-is and returns the raw success body.
// A non-2xx status is returned as a BackendError.
func (c *Client) Query(ctx context.Context, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.QueryURL(), strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &BackendError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return body, nil
}

// HealthURL is the endpoint IsHealthy probes.
func (c *Client) HealthURL() string {
	return c.cfg.HealthURL()
}

func (c *Client) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.HealthURL(), nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close response body", "error", err)
		}
	}()

	return resp.StatusCode == http.StatusOK
}
