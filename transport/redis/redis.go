// Package redis adapts Redis pub/sub to the transport contract.
//
// Messages are published as JSON to a configurable channel. Connection
// errors are retried with exponential backoff.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/types"
)

// Kind is the registry discriminator for this transport.
const Kind = "redis"

// DefaultChannel is the default pub/sub channel name.
const DefaultChannel = "courier:messages"

// DefaultTimeout is the default per-publish timeout.
const DefaultTimeout = 5 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// DefaultRatePerMinute is the sustained publish rate assumed for a
// single redis channel.
const DefaultRatePerMinute = 600

// Publisher is the native redis surface the transport delegates to.
// *goredis.Client satisfies it; tests may inject fakes.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
	Close() error
}

// Config configures the redis transport.
type Config struct {
	// URL is the redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Channel is the pub/sub channel name (default: courier:messages).
	Channel string
	// Timeout is the per-publish timeout (default 5s).
	Timeout time.Duration
	// Retries is the number of retry attempts on failure (default 3).
	Retries int
}

// Transport delivers messages via redis PUBLISH.
type Transport struct {
	config Config
	client Publisher
}

// New creates a redis transport from the given config.
func New(cfg Config) (*Transport, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis transport requires a URL")
	}

	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis transport: invalid URL: %w", err)
	}

	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}

	return NewWithPublisher(cfg, goredis.NewClient(opts)), nil
}

// NewWithPublisher creates a redis transport around a pre-built publisher.
func NewWithPublisher(cfg Config, client Publisher) *Transport {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Transport{config: cfg, client: client}
}

// Deliver publishes the message as JSON to the configured channel.
// Retries with exponential backoff on failures.
func (t *Transport) Deliver(ctx context.Context, msg *types.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("redis: marshal message: %w", err)
	}

	var lastErr error
	// attempts = 1 initial + retries
	attempts := 1 + t.config.Retries

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("redis: context canceled: %w", err)
		}

		// Exponential backoff before retries (not before first attempt)
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return fmt.Errorf("redis: context canceled during backoff: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		publishCtx, cancel := context.WithTimeout(ctx, t.config.Timeout)
		lastErr = t.client.Publish(publishCtx, t.config.Channel, body).Err()
		cancel()

		if lastErr == nil {
			return nil
		}
	}

	return transport.WrapDeliverError(Kind, "publish",
		fmt.Errorf("failed after %d attempts: %w", attempts, lastErr))
}

// Rate reports the assumed channel rate as "rate:N".
func (t *Transport) Rate() string {
	return fmt.Sprintf("rate:%d", DefaultRatePerMinute)
}

// Close releases the client connection.
func (t *Transport) Close() error {
	return t.client.Close()
}

// Verify Transport implements the transport interface.
var _ transport.Transport = (*Transport)(nil)
