// Package api is the typed client for the learning backend. Every method
// returns either a decoded value or an *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studymate/internal/logger"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client talks to the backend over HTTP.
type Client struct {
	base      *url.URL
	http      *http.Client
	tokens    TokenSource
	log       *logger.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l.With("component", "api") }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", baseURL)
	}

	c := &Client{
		base:      u,
		http:      &http.Client{Timeout: 30 * time.Second},
		tokens:    TokenFunc(func() string { return "" }),
		log:       logger.Nop(),
		userAgent: "studymate",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// do sends one request. body, when non-nil, is JSON-encoded; out, when
// non-nil, receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindPrecondition, Err: fmt.Errorf("encode request: %w", err)}
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rdr)
	if err != nil {
		return &Error{Kind: KindPrecondition, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(), "request_id", req.Header.Get("X-Request-ID"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:   statusKind(resp.StatusCode),
			Status: resp.StatusCode,
			Detail: parseDetail(data),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// parseDetail extracts the human-readable message from an error body.
// FastAPI-style backends send {"detail": "..."} but validation failures
// carry a list of {"msg": ...} objects instead.
func parseDetail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		var msgs []string
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// requireToken refuses calls that are pointless without a login.
func (c *Client) requireToken() error {
	if c.tokens.Token() == "" {
		return &Error{Kind: KindPrecondition, Detail: "Please log in first", Err: errors.New("no access token")}
	}
	return nil
}
