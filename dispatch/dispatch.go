// Package dispatch assembles the builtin transport registry and provides
// the generic delivery entrypoint.
//
// Variant packages cannot register themselves into package transport
// without an import cycle, so this package is the single assembly point:
// adding a backend means adding one registration here and nothing
// anywhere else.
package dispatch

import (
	"context"
	"fmt"

	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/journal"
	"github.com/pithecene-io/courier/pushgate"
	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/transport/push"
	"github.com/pithecene-io/courier/transport/redis"
	"github.com/pithecene-io/courier/transport/s3"
	"github.com/pithecene-io/courier/transport/spool"
	"github.com/pithecene-io/courier/transport/webhook"
	"github.com/pithecene-io/courier/types"
)

// NewRegistry returns a registry with all builtin transport kinds.
// Callers may register additional kinds on the returned registry.
func NewRegistry() *transport.Registry {
	r := transport.NewRegistry()

	mustRegister(r, push.Kind, transport.Registration{
		Build: func(s transport.Settings) (transport.Transport, error) {
			return push.New(push.Config{
				APIKey:  s.APIKey,
				URL:     s.URL,
				Timeout: s.Timeout,
			})
		},
		Info: transport.Info{
			Summary:  fmt.Sprintf("pushgate notification gateway (quota %d/min)", pushgate.DefaultQuotaPerMinute),
			Required: []string{"api_key"},
			Optional: []string{"url", "timeout"},
		},
	})

	mustRegister(r, spool.Kind, transport.Registration{
		Build: func(s transport.Settings) (transport.Transport, error) {
			return spool.New(spool.Config{Path: s.Path})
		},
		Info: transport.Info{
			Summary:  fmt.Sprintf("local msgpack journal drained at %d/min", journal.DrainPerMinute),
			Optional: []string{"path"},
		},
	})

	mustRegister(r, webhook.Kind, transport.Registration{
		Build: func(s transport.Settings) (transport.Transport, error) {
			return webhook.New(webhook.Config{
				URL:     s.URL,
				Headers: s.Headers,
				Timeout: s.Timeout,
				Retries: s.RetriesOrDefault(webhook.DefaultRetries),
			})
		},
		Info: transport.Info{
			Summary:  "JSON POST to an HTTP endpoint with retry",
			Required: []string{"url"},
			Optional: []string{"headers", "timeout", "retries"},
		},
	})

	mustRegister(r, redis.Kind, transport.Registration{
		Build: func(s transport.Settings) (transport.Transport, error) {
			return redis.New(redis.Config{
				URL:     s.URL,
				Channel: s.Channel,
				Timeout: s.Timeout,
				Retries: s.RetriesOrDefault(redis.DefaultRetries),
			})
		},
		Info: transport.Info{
			Summary:  "redis pub/sub channel",
			Required: []string{"url"},
			Optional: []string{"channel", "timeout", "retries"},
		},
	})

	mustRegister(r, s3.Kind, transport.Registration{
		Build: func(s transport.Settings) (transport.Transport, error) {
			// AWS config resolution happens at build time, not delivery time
			return s3.New(context.Background(), s3.Config{
				Bucket: s.Bucket,
				Prefix: s.Prefix,
				Region: s.Region,
			})
		},
		Info: transport.Info{
			Summary:  "S3 object archive (JSON per message)",
			Required: []string{"bucket"},
			Optional: []string{"prefix", "region"},
		},
	})

	return r
}

// mustRegister panics on registration failure. Builtin registrations can
// only fail on a programming error (duplicate kind, nil builder).
func mustRegister(r *transport.Registry, kind string, reg transport.Registration) {
	if err := r.Register(kind, reg); err != nil {
		panic(fmt.Sprintf("dispatch: register builtin %q: %v", kind, err))
	}
}

// Send builds the transport for kind and delivers one message through it.
//
// Send touches only the transport interface: it never inspects which
// concrete backend the registry produced, so its behavior is uniform
// across kinds by construction.
func Send(ctx context.Context, reg *transport.Registry, kind string, settings transport.Settings, msg *types.Message) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}

	tr, err := reg.New(kind, settings)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(tr)

	return tr.Deliver(ctx, msg)
}
