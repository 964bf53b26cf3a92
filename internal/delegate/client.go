// Package delegate submits long-running workflows to the JoeAPI async-agent
// and consumes the SSE stream describing their progress. Each call produces
// exactly one terminal outcome: the complete payload, or an *Error whose
// FailureKind distinguishes transport, remote, incomplete-stream, and
// timeout failures.
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// DefaultEndpoint is the async-agent streaming webhook.
const DefaultEndpoint = "https://joeapi-async-agent.fly.dev/webhooks/prompt-stream"

// DefaultTimeout is generous because legitimate workflows run for minutes;
// the contract favors progress signaling over early failure.
const DefaultTimeout = 10 * time.Minute

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client. The client must not
// set a Timeout of its own: streams outlive ordinary request timeouts and
// the session enforces the deadline instead.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithCredential configures a bearer token sent on every request.
func WithCredential(token string) Option {
	return func(c *Client) { c.credential = token }
}

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock injects the clock used for deadline enforcement.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) { c.clk = clk }
}

// WithLogger enables debug traces (malformed lines, sink failures).
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = log }
}

// Client is the public entry point for workflow delegation. It is safe for
// concurrent use: every Delegate call runs its own private session and no
// state is shared or reused across calls.
type Client struct {
	endpoint   string
	httpc      *http.Client
	credential string
	timeout    time.Duration
	clk        clock.Clock
	log        *zap.SugaredLogger
}

// New creates a delegation client for the given streaming endpoint. An empty
// endpoint falls back to DefaultEndpoint.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		httpc:    &http.Client{},
		timeout:  DefaultTimeout,
		clk:      clock.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.httpc == nil {
		c.httpc = &http.Client{}
	}
	return c
}

// Delegate submits prompt to the async-agent and blocks until the workflow
// produces a terminal outcome or the deadline elapses. Progress events are
// forwarded to sink in arrival order; a nil sink discards them. There is no
// retry policy: workflows are long and side-effecting, so retrying is a
// caller decision.
func (c *Client) Delegate(ctx context.Context, prompt string, sink ProgressSink) (json.RawMessage, error) {
	if sink == nil {
		sink = NopSink
	}
	s := &session{
		open:    c.openStream,
		sink:    sink,
		clk:     c.clk,
		timeout: c.timeout,
		log:     c.log,
	}
	return s.run(ctx, Request{Prompt: prompt, SearchWorkflow: true, Async: false})
}

// openStream performs the streaming POST handshake. Any failure before the
// first event is a transport error.
func (c *Client) openStream(ctx context.Context, req Request) (io.ReadCloser, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error()}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.credential)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		_ = resp.Body.Close()
		return nil, &Error{
			Kind:    KindTransport,
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(raw)),
		}
	}
	return resp.Body, nil
}
