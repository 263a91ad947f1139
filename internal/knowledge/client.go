// Package knowledge talks to the enterprise knowledge API. Every operation is
// a single GET whose failures are logged and collapsed into an absent
// Response, so callers always get text back.
package knowledge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kayz/kbmcp/internal/config"
	"github.com/kayz/kbmcp/internal/logger"
	"github.com/tidwall/gjson"
)

// maxDrainBytes bounds how much of an error response is drained before the
// body is closed. Successful bodies are read in full.
const maxDrainBytes = 64 << 10

// Client issues requests against one knowledge API base URL. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The configured timeout
// is not applied to a replaced client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a Client from the knowledge API settings.
func New(cfg config.KnowledgeAPIConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is the outcome of one request: either a decoded JSON object or
// absent. The failure reason stays inside for logging.
type Response struct {
	body gjson.Result
	err  error
}

// Absent reports whether the request produced no usable payload.
func (r Response) Absent() bool {
	return r.err != nil
}

// Has reports whether the payload carries key, even with a null value.
func (r Response) Has(key string) bool {
	if r.Absent() {
		return false
	}
	return r.body.Get(gjson.Escape(key)).Exists()
}

// Get returns the value stored under key. Absent responses yield an empty
// result.
func (r Response) Get(key string) gjson.Result {
	if r.Absent() {
		return gjson.Result{}
	}
	return r.body.Get(gjson.Escape(key))
}

func absent(err error) Response {
	return Response{err: err}
}

// Execute performs one GET against endpoint with params as the query string.
// It never returns an error: network failures, timeouts, non-2xx statuses
// and bodies that are not a JSON object all produce an absent Response.
func (c *Client) Execute(ctx context.Context, endpoint string, params url.Values) Response {
	requestID := uuid.NewString()
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	start := time.Now()
	logger.Debug("[Knowledge] GET %s (request_id=%s)", target, requestID)

	resp := c.do(ctx, target, requestID)
	if resp.Absent() {
		logger.Warn("[Knowledge] Request failed: endpoint=%s request_id=%s: %v", endpoint, requestID, resp.err)
		return resp
	}

	logger.Debug("[Knowledge] GET %s ok in %v (request_id=%s)", endpoint, time.Since(start), requestID)
	return resp
}

func (c *Client) do(ctx context.Context, target, requestID string) Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return absent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return absent(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		return absent(fmt.Errorf("unexpected status: %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return absent(fmt.Errorf("read response: %w", err))
	}
	logger.Trace("[Knowledge] %s body (%d bytes): %.512s", target, len(body), body)
	if !gjson.ValidBytes(body) {
		return absent(fmt.Errorf("response is not valid JSON"))
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return absent(fmt.Errorf("response is not a JSON object"))
	}

	return Response{body: parsed}
}
