// Package push adapts the pushgate batch client to the transport contract.
//
// pushgate speaks batches of payloads and reports an integer quota; this
// package translates single-message delivery onto one-element batches and
// formats the quota as the transport rate string.
package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pithecene-io/courier/pushgate"
	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/types"
)

// Kind is the registry discriminator for this transport.
const Kind = "push"

// Gateway is the native pushgate surface the transport delegates to.
// *pushgate.Client satisfies it; tests inject fakes.
type Gateway interface {
	EmitBatch(ctx context.Context, payloads []pushgate.Payload) error
	QuotaPerMinute() int
	Close() error
}

// Config configures the push transport.
type Config struct {
	// APIKey authenticates against the gateway (required).
	APIKey string
	// URL overrides the gateway endpoint (default: hosted pushgate).
	URL string
	// Timeout is the per-delivery timeout (default pushgate.DefaultTimeout).
	Timeout time.Duration
}

// Transport delivers messages through a pushgate gateway.
type Transport struct {
	gateway Gateway
}

// New creates a push transport, dialing the gateway itself.
func New(cfg Config) (*Transport, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("push transport requires an API key")
	}

	var opts []pushgate.Option
	if cfg.URL != "" {
		opts = append(opts, pushgate.WithBaseURL(cfg.URL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, pushgate.WithTimeout(cfg.Timeout))
	}

	client, err := pushgate.Dial(cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("push transport: %w", err)
	}
	return NewWithGateway(client), nil
}

// NewWithGateway creates a push transport around a pre-built gateway.
// The transport does not own gateway construction in this form, which is
// what lets callers swap gateway implementations without touching this
// package.
func NewWithGateway(gw Gateway) *Transport {
	return &Transport{gateway: gw}
}

// Deliver emits the message as a one-element batch.
func (t *Transport) Deliver(ctx context.Context, msg *types.Message) error {
	payload := pushgate.Payload{
		Ref:     msg.ID,
		Title:   msg.Subject,
		Content: msg.Body,
		Meta:    msg.Attributes,
	}
	err := t.gateway.EmitBatch(ctx, []pushgate.Payload{payload})
	return transport.WrapDeliverError(Kind, "emit_batch", err)
}

// Rate reports the gateway quota as "rate:N".
func (t *Transport) Rate() string {
	return fmt.Sprintf("rate:%d", t.gateway.QuotaPerMinute())
}

// Close releases the gateway connection.
func (t *Transport) Close() error {
	return t.gateway.Close()
}

// Verify Transport implements the transport interface.
var _ transport.Transport = (*Transport)(nil)
