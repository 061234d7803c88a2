// Package spool adapts the local message journal to the transport contract.
//
// Delivery appends to an append-only msgpack journal that a downstream
// relay drains out-of-band. The journal's drain rate becomes the transport
// rate string.
package spool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pithecene-io/courier/journal"
	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/types"
)

// Kind is the registry discriminator for this transport.
const Kind = "spool"

// Config configures the spool transport.
type Config struct {
	// Path is the spool directory (default: courier-spool under the
	// user cache directory).
	Path string
}

// Transport delivers messages by appending them to the local journal.
type Transport struct {
	journal *journal.Journal
}

// New creates a spool transport, opening the journal itself.
func New(cfg Config) (*Transport, error) {
	dir := cfg.Path
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("spool transport: resolve default path: %w", err)
		}
		dir = filepath.Join(cache, "courier-spool")
	}

	j, err := journal.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("spool transport: %w", err)
	}
	return NewWithJournal(j), nil
}

// NewWithJournal creates a spool transport around a pre-opened journal.
func NewWithJournal(j *journal.Journal) *Transport {
	return &Transport{journal: j}
}

// Deliver appends the message to the journal.
// The context is checked before the append; the journal itself is local
// and does not block on I/O waits worth cancelling mid-write.
func (t *Transport) Deliver(ctx context.Context, msg *types.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("spool transport: context canceled: %w", err)
	}
	return transport.WrapDeliverError(Kind, "append", t.journal.Append(msg))
}

// Rate reports the journal drain rate as "rate:N".
func (t *Transport) Rate() string {
	return fmt.Sprintf("rate:%d", t.journal.Throughput())
}

// Close closes the journal.
func (t *Transport) Close() error {
	return t.journal.Close()
}

// Verify Transport implements the transport interface.
var _ transport.Transport = (*Transport)(nil)
