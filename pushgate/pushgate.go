// Package pushgate is a client for the pushgate notification gateway.
//
// The gateway speaks its own batch protocol: payloads are emitted in
// batches to a single HTTP endpoint, authenticated with an API key, and
// each key is assigned a per-minute emission quota. The client exists
// independently of courier's transport contract; the transport/push
// package adapts it.
package pushgate

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
)

// DefaultBaseURL is the hosted gateway endpoint.
const DefaultBaseURL = "https://pushgate.pithecene.io"

// DefaultTimeout is the default per-batch request timeout.
const DefaultTimeout = 5 * time.Second

// DefaultQuotaPerMinute is the per-key emission quota assigned to
// standard-plan API keys.
const DefaultQuotaPerMinute = 100

// Payload is one notification in a batch.
type Payload struct {
	Ref     string            `json:"ref"`
	Title   string            `json:"title"`
	Content string            `json:"content"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// batchRequest is the wire shape of an emit call.
type batchRequest struct {
	Payloads []Payload `json:"payloads"`
}

// Client talks to one pushgate endpoint with one API key.
type Client struct {
	baseURL string
	apiKey  string
	quota   int
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the gateway endpoint (self-hosted gateways, tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithTimeout overrides the per-batch request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithQuota overrides the per-minute quota for keys on non-standard plans.
func WithQuota(n int) Option {
	return func(c *Client) { c.quota = n }
}

// Dial creates a gateway client. The API key is required; the gateway
// rejects anonymous batches.
func Dial(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("pushgate: API key is required")
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		quota:   DefaultQuotaPerMinute,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// EmitBatch sends a batch of payloads to the gateway.
// The gateway accepts the whole batch or rejects it; there is no
// per-payload status.
func (c *Client) EmitBatch(ctx context.Context, payloads []Payload) error {
	if len(payloads) == 0 {
		return nil
	}

	body, err := json.Marshal(batchRequest{Payloads: payloads})
	if err != nil {
		return fmt.Errorf("pushgate: marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/emit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("pushgate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pushgate: emit request failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)

	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pushgate: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// QuotaPerMinute reports the per-minute emission quota for this key.
func (c *Client) QuotaPerMinute() int {
	return c.quota
}

// Close releases client resources.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
