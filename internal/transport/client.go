package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"quote-favorites/internal/logger"
)

// Client performs single typed GET calls. It keeps no per-call state and
// is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient wraps httpClient; nil selects http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		log:        logger.Named("transport"),
	}
}

// NewClientWithTimeout builds a client with its own http.Client. A
// non-positive timeout keeps the platform default.
func NewClientWithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		return NewClient(nil)
	}
	return NewClient(&http.Client{Timeout: timeout})
}

// Fetch issues one GET against rawURL and decodes the JSON body into T.
// Any non-nil error is a *Error.
func Fetch[T any](ctx context.Context, c *Client, rawURL string) (T, error) {
	var zero T

	u, err := url.Parse(rawURL)
	if err != nil {
		return zero, &Error{Kind: KindTransport, Err: fmt.Errorf("invalid url: %w", err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return zero, &Error{Kind: KindTransport, Err: fmt.Errorf("invalid url: %q", rawURL)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return zero, &Error{Kind: KindTransport, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debugw("fetch failed", "host", u.Host, "error", err, "elapsed", time.Since(start))
		return zero, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()
	c.log.Debugw("fetch done", "host", u.Host, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode == 0 || resp.ProtoMajor < 1 {
		return zero, &Error{Kind: KindWrongResponse, Err: fmt.Errorf("not an http response (proto %q)", resp.Proto)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, &Error{Kind: KindWrongStatusCode, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &Error{Kind: KindTransport, Err: fmt.Errorf("read body: %w", err)}
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, &Error{Kind: KindNoValidData, Err: err}
	}
	return out, nil
}
