// Package transport defines the delivery transport boundary.
//
// A Transport normalizes one delivery backend — push gateway, local spool,
// webhook endpoint, redis channel, S3 bucket — behind a single capability
// interface. Callers hold only the interface; concrete backends are selected
// through the Registry by kind.
package transport

import (
	"context"

	"github.com/pithecene-io/courier/types"
)

// Transport delivers messages to one downstream backend.
//
// Implementations translate Deliver and Rate onto whatever native client
// they wrap and must not add behavior of their own: a Deliver error means
// the underlying native call failed, and Rate reports the backend's
// sustained delivery rate without side effects.
type Transport interface {
	// Deliver sends one message to the backend.
	// Must respect context cancellation and deadlines.
	Deliver(ctx context.Context, msg *types.Message) error

	// Rate reports the backend's sustained delivery rate as "rate:N",
	// where N is deliveries per minute. Idempotent; repeated calls on the
	// same instance return the same value.
	Rate() string

	// Close releases transport resources.
	Close() error
}
