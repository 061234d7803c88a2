// Package metrics provides delivery metrics collection.
//
// The Collector accumulates counters for a single dispatch. It is a leaf
// package with no internal dependencies; transports record into it through
// the instrumented wrapper rather than directly.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of delivery metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Delivery outcomes
	DeliveriesAttempted int64 `json:"deliveries_attempted"`
	DeliveriesSucceeded int64 `json:"deliveries_succeeded"`
	DeliveriesFailed    int64 `json:"deliveries_failed"`

	// FailedByKind maps transport kinds to failure counts.
	FailedByKind map[string]int64 `json:"failed_by_kind,omitempty"`

	// Dimensions (informational, set at construction)
	Kind      string `json:"kind"`
	MessageID string `json:"message_id,omitempty"`
}

// Collector accumulates delivery metrics.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe,
// so un-instrumented paths can pass a nil collector.
type Collector struct {
	mu sync.Mutex

	attempted int64
	succeeded int64
	failed    int64

	failedByKind map[string]int64

	kind      string
	messageID string
}

// NewCollector creates a Collector with dimension labels.
// kind is the transport kind being instrumented; messageID is optional.
func NewCollector(kind, messageID string) *Collector {
	return &Collector{
		failedByKind: make(map[string]int64),
		kind:         kind,
		messageID:    messageID,
	}
}

// IncAttempted records a delivery attempt.
func (c *Collector) IncAttempted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.attempted++
	c.mu.Unlock()
}

// IncSucceeded records a successful delivery.
func (c *Collector) IncSucceeded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.succeeded++
	c.mu.Unlock()
}

// IncFailed records a failed delivery for the given transport kind.
func (c *Collector) IncFailed(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.failed++
	c.failedByKind[kind]++
	c.mu.Unlock()
}

// Snapshot returns an atomic copy of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byKind := make(map[string]int64, len(c.failedByKind))
	for k, v := range c.failedByKind {
		byKind[k] = v
	}

	return Snapshot{
		DeliveriesAttempted: c.attempted,
		DeliveriesSucceeded: c.succeeded,
		DeliveriesFailed:    c.failed,
		FailedByKind:        byKind,
		Kind:                c.kind,
		MessageID:           c.messageID,
	}
}
