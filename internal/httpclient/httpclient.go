// Package httpclient is a small retrying HTTP client used by the
// listing/detail cachers to fetch vendor pages. Grounded on
// ninesl/scryball's internal/client.Client (timeout, header setup,
// status check, fmt.Errorf wrapping) generalized from a JSON API client
// to a generic HTML fetcher, with transient-error retry added via
// cenkalti/backoff as spec.md §7 requires.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultUserAgent = "wxdex/1.0"
	DefaultTimeout   = 5 * time.Second
	DefaultMaxTries  = 4
)

// Client wraps *http.Client with a fixed User-Agent, a per-request
// timeout, and a bounded exponential-backoff retry over 5xx responses
// and transport errors. 4xx responses are never retried — they are a
// permanent rejection of the request, not a transient failure.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxTries   uint64
}

// Options configures a Client. The zero value of every field falls
// back to its Default* constant.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxTries   uint64
	HTTPClient *http.Client
}

// New builds a Client from opts, filling in defaults for zero fields.
func New(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxTries == 0 {
		opts.MaxTries = DefaultMaxTries
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{httpClient: hc, userAgent: opts.UserAgent, maxTries: opts.MaxTries}
}

// GetHTML fetches url and returns the response body as a string.
// Transport errors and 5xx responses are retried with exponential
// backoff up to MaxTries; a 4xx response is returned as a permanent
// error immediately. Transport errors propagate only once retries are
// exhausted, per spec.md §7.
func (c *Client) GetHTML(ctx context.Context, url string) (string, error) {
	var body string

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("httpclient: build request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/html;q=0.9,*/*;q=0.8")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("httpclient: request %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("httpclient: %s returned status %d", url, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("httpclient: %s returned status %d", url, resp.StatusCode)
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("httpclient: read body of %s: %w", url, err)
		}
		body = string(b)
		return nil
	}

	notify := func(err error, wait time.Duration) {
		slog.With("url", url, "wait", wait).Warn(fmt.Sprintf("httpclient: retrying after transient error: %v", err))
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxTries-1)
	if err := backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify); err != nil {
		return "", err
	}
	return body, nil
}
