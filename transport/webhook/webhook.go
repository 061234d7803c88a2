// Package webhook adapts a plain HTTP endpoint to the transport contract.
//
// Messages are delivered as JSON POST requests. Transient failures (5xx,
// network errors) are retried with exponential backoff; 4xx responses are
// non-retriable and fail immediately.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/types"
)

// Kind is the registry discriminator for this transport.
const Kind = "webhook"

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// DefaultRatePerMinute is the sustained delivery rate assumed for a
// generic webhook endpoint.
const DefaultRatePerMinute = 60

// Config configures the webhook transport.
type Config struct {
	// URL is the HTTP endpoint to POST to (required).
	URL string
	// Headers are custom HTTP headers added to each request.
	Headers map[string]string
	// Timeout is the per-request timeout (default 10s).
	Timeout time.Duration
	// Retries is the number of retry attempts on failure (default 3).
	Retries int
}

// Transport delivers messages via HTTP POST.
type Transport struct {
	config Config
	client *http.Client
}

// New creates a webhook transport from the given config.
func New(cfg Config) (*Transport, error) {
	if cfg.URL == "" {
		return nil, errors.New("webhook transport requires a URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}

	return NewWithClient(cfg, &http.Client{Timeout: cfg.Timeout}), nil
}

// NewWithClient creates a webhook transport around a pre-built HTTP client.
func NewWithClient(cfg Config, client *http.Client) *Transport {
	return &Transport{config: cfg, client: client}
}

// Deliver sends the message as a JSON POST request.
// Retries with exponential backoff on 5xx responses and network errors.
func (t *Transport) Deliver(ctx context.Context, msg *types.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("webhook: marshal message: %w", err)
	}

	var lastErr error
	// attempts = 1 initial + retries
	attempts := 1 + t.config.Retries

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("webhook: context canceled: %w", err)
		}

		// Exponential backoff before retries (not before first attempt)
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return fmt.Errorf("webhook: context canceled during backoff: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		lastErr = t.doRequest(ctx, body)
		if lastErr == nil {
			return nil
		}

		// 4xx errors are non-retriable — stop immediately
		var statusErr *StatusError
		if errors.As(lastErr, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
			return transport.WrapDeliverError(Kind, "post", lastErr)
		}
	}

	return transport.WrapDeliverError(Kind, "post",
		fmt.Errorf("failed after %d attempts: %w", attempts, lastErr))
}

// Rate reports the assumed endpoint rate as "rate:N".
func (t *Transport) Rate() string {
	return fmt.Sprintf("rate:%d", DefaultRatePerMinute)
}

// StatusError is returned for non-2xx HTTP responses.
// Carrying the status code lets Deliver distinguish retriable (5xx)
// from non-retriable (4xx) failures.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// doRequest performs a single HTTP POST and returns nil on 2xx.
func (t *Transport) doRequest(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range t.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)

	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}

	return nil
}

// Close releases transport resources.
func (t *Transport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// Verify Transport implements the transport interface.
var _ transport.Transport = (*Transport)(nil)
