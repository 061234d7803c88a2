package transport

import (
	"context"

	"github.com/pithecene-io/courier/metrics"
	"github.com/pithecene-io/courier/types"
)

// Instrumented wraps a Transport and records delivery metrics.
// Each Deliver call increments attempted plus succeeded or failed on the
// collector. Rate and Close pass through untouched.
type Instrumented struct {
	inner     Transport
	kind      string
	collector *metrics.Collector
}

// NewInstrumented wraps a transport with metrics instrumentation.
// kind labels failure counts; it should match the registry discriminator.
func NewInstrumented(inner Transport, kind string, collector *metrics.Collector) *Instrumented {
	return &Instrumented{inner: inner, kind: kind, collector: collector}
}

// Deliver delegates to the inner transport and records the outcome.
func (i *Instrumented) Deliver(ctx context.Context, msg *types.Message) error {
	i.collector.IncAttempted()
	err := i.inner.Deliver(ctx, msg)
	if err != nil {
		i.collector.IncFailed(i.kind)
	} else {
		i.collector.IncSucceeded()
	}
	return err
}

// Rate delegates to the inner transport.
func (i *Instrumented) Rate() string {
	return i.inner.Rate()
}

// Close delegates to the inner transport.
func (i *Instrumented) Close() error {
	return i.inner.Close()
}

// Verify Instrumented implements Transport.
var _ Transport = (*Instrumented)(nil)
