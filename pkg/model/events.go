package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LookupKind names the operation that produced a LookupEvent.
type LookupKind string

const (
	KindBank   LookupKind = "bank"
	KindCrypto LookupKind = "crypto"
)

// LookupEvent is emitted once per completed lookup. Keys are masked before they
// leave the process.
type LookupEvent struct {
	ID         uuid.UUID  `json:"id"`
	Kind       LookupKind `json:"kind"`
	Key        string     `json:"key"`
	Qualifier  string     `json:"qualifier,omitempty"`
	Success    bool       `json:"success"`
	ErrorKey   ErrorKey   `json:"errorKey,omitempty"`
	Source     Source     `json:"source,omitempty"`
	Cached     bool       `json:"cached"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// Envelope wraps event payloads published to brokers.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// NewLookupEnvelope wraps ev for topic.
func NewLookupEnvelope(topic string, ev LookupEvent) (*Envelope, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		ID:            uuid.New(),
		CorrelationID: ev.ID,
		Topic:         topic,
		EventType:     "lookup." + string(ev.Kind),
		Version:       "1.0.0",
		Timestamp:     time.Now().UTC(),
		Payload:       data,
	}, nil
}
