// Package types defines the shared message model for courier.
//
// Message is the unit of delivery. Wire transports (webhook, redis, s3)
// serialize it as JSON; the spool journal serializes it as msgpack.
package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is the payload handed to a transport for delivery.
type Message struct {
	// ID uniquely identifies the message. Required.
	ID string `json:"id" msgpack:"id"`
	// Subject is a short routing/description line.
	Subject string `json:"subject" msgpack:"subject"`
	// Body is the message content.
	Body string `json:"body" msgpack:"body"`
	// Attributes carries free-form key/value metadata.
	Attributes map[string]string `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	// CreatedAt is the message creation time in UTC.
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// NewMessage creates a message with a generated ID and UTC timestamp.
func NewMessage(subject, body string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks required message fields.
func (m *Message) Validate() error {
	if m == nil {
		return errors.New("message is nil")
	}
	if m.ID == "" {
		return errors.New("message ID is required")
	}
	if m.CreatedAt.IsZero() {
		return fmt.Errorf("message %s: created_at is required", m.ID)
	}
	return nil
}

// SetAttribute sets a metadata attribute, allocating the map on first use.
func (m *Message) SetAttribute(key, value string) {
	if m.Attributes == nil {
		m.Attributes = make(map[string]string)
	}
	m.Attributes[key] = value
}
