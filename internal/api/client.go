// Package api is a thin pass-through client for the JoeAPI backend. Resource
// payloads stay opaque JSON; the only contract is parameter forwarding and
// mapping HTTP failures to a typed error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production JoeAPI deployment.
const DefaultBaseURL = "https://joeapi.fly.dev"

// DefaultRequestTimeout bounds the simple request/response calls. Streaming
// delegation has its own, much larger deadline and does not go through this
// client.
const DefaultRequestTimeout = 30 * time.Second

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// Params are query parameters. Empty values are dropped before encoding so
// optional filters can be passed unconditionally.
type Params map[string]string

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithKey configures a bearer API key sent on every request.
func WithKey(key string) Option {
	return func(c *Client) { c.key = key }
}

// WithTimeout sets the per-request timeout. It applies regardless of option
// order, including onto a client supplied via WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger enables request debug traces.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = log }
}

// Client calls the JoeAPI REST endpoints under /api/v1.
type Client struct {
	baseURL string
	key     string
	timeout time.Duration
	httpc   *http.Client
	log     *zap.SugaredLogger
}

// New creates a client for the given base URL ("" uses DefaultBaseURL).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultRequestTimeout,
		httpc:   &http.Client{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.httpc.Timeout = c.timeout
	return c
}

// Request performs one HTTP exchange and returns the raw JSON response.
// Non-2xx responses become *APIError; everything else passes through.
func (c *Client) Request(ctx context.Context, method, path string, body any, params Params) (json.RawMessage, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	endpoint := c.baseURL + "/api/v1" + path

	query := url.Values{}
	for k, v := range lo.OmitBy(params, func(_ string, v string) bool { return v == "" }) {
		query.Set(k, v)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	if c.log != nil {
		c.log.Debugw("joeapi request", "method", method, "path", path)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return raw, nil
}
