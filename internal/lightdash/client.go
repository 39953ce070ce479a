// Package lightdash is a thin client for the Lightdash HTTP API. It owns
// the shared session (auth headers, JSON content negotiation, optional
// Cloudflare Access headers) and exposes typed endpoint methods; all
// response envelopes are unwrapped here so callers see domain types only.
package lightdash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 2 * time.Minute

// Config configures a Client.
type Config struct {
	// BaseURL is the Lightdash instance URL, e.g. https://app.lightdash.cloud.
	BaseURL string

	// Token is a Lightdash personal access token, sent as `ApiKey <token>`.
	Token string

	// CFAccessClientID and CFAccessClientSecret are optional Cloudflare
	// Access service-token headers for instances behind Cloudflare.
	CFAccessClientID     string
	CFAccessClientSecret string

	// HTTPClient overrides the transport; a default with a 2 minute
	// timeout is used when nil. The client is shared across concurrent
	// tile executions and must be safe for concurrent use.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client issues authenticated requests against one Lightdash instance.
// It is safe for concurrent use.
type Client struct {
	baseURL  string
	token    string
	cfID     string
	cfSecret string
	http     *http.Client
	logger   *slog.Logger
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		cfID:     cfg.CFAccessClientID,
		cfSecret: cfg.CFAccessClientSecret,
		http:     httpClient,
		logger:   logger,
	}
}

// APIError is a non-2xx response from the API, with the response body
// surfaced for diagnostics.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lightdash: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// envelope is the `{"results": ...}` wrapper all v1 endpoints respond with.
type envelope struct {
	Results json.RawMessage `json:"results"`
}

// do issues one request and decodes the results envelope into out (when out
// is non-nil). body is JSON-encoded when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "ApiKey "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfID != "" && c.cfSecret != "" {
		req.Header.Set("CF-Access-Client-Id", c.cfID)
		req.Header.Set("CF-Access-Client-Secret", c.cfSecret)
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%s %s: decode envelope: %w", method, path, err)
	}
	if env.Results == nil {
		return nil
	}
	if err := json.Unmarshal(env.Results, out); err != nil {
		return fmt.Errorf("%s %s: decode results: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
