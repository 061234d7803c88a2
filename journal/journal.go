// Package journal implements an append-only msgpack message journal.
//
// The journal is the native storage behind the spool transport: messages
// are appended to a single file as a msgpack stream and drained later by
// an out-of-band relay. The journal knows nothing about the transport
// contract; the transport/spool package adapts it.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/courier/types"
)

// FileName is the journal file name inside the spool directory.
const FileName = "spool.msgpack"

// DrainPerMinute is the nominal drain rate of the downstream relay.
// Appends beyond this rate are accepted but only drained at this pace.
const DrainPerMinute = 20

// Journal is an append-only message journal backed by one file.
// Safe for concurrent appends.
type Journal struct {
	path string

	mu    sync.Mutex
	f     *os.File
	enc   *msgpack.Encoder
	count int
}

// Open opens (or creates) the journal in dir.
func Open(dir string) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("journal: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}

	return &Journal{
		path: path,
		f:    f,
		enc:  msgpack.NewEncoder(f),
	}, nil
}

// Append writes one message to the journal and syncs it to disk.
func (j *Journal) Append(msg *types.Message) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("journal: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.f == nil {
		return errors.New("journal: closed")
	}
	if err := j.enc.Encode(msg); err != nil {
		return fmt.Errorf("journal: append %s: %w", msg.ID, err)
	}
	if err := j.f.Sync(); err != nil {
		return fmt.Errorf("journal: sync: %w", err)
	}
	j.count++
	return nil
}

// Len reports the number of messages appended through this handle.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

// Throughput reports the nominal drain rate in messages per minute.
func (j *Journal) Throughput() int {
	return DrainPerMinute
}

// Close closes the journal file. Further appends fail.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}

// ReadAll decodes every message in the journal at dir.
// Intended for the drain relay and for tests; the journal file is read
// independently of any open handle.
func ReadAll(dir string) ([]*types.Message, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var msgs []*types.Message
	dec := msgpack.NewDecoder(f)
	for {
		var m types.Message
		if err := dec.Decode(&m); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("journal: decode: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}
