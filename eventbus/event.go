// Package eventbus is the engine's consumed event-bus interface (spec §6:
// "publish an event (type, id, timestamp, source, JSON payload) on a named
// subject; subscribe to a subject returns a best-effort stream. Not used by
// the core engine itself."). It exists so the surrounding services named in
// the package map can share one publish/subscribe façade, grounded on
// message-bus-client/src/nats.rs and its Event shape in
// armoricore-types/src/events.rs.
package eventbus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/coldwire/mediacore/mediaerr"
)

// Event is the wire shape every subject carries: type, id, timestamp,
// source, and an opaque JSON payload.
type Event struct {
	Type      string          `json:"event_type"`
	ID        uuid.UUID       `json:"event_id"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEvent builds an Event, marshaling payload to JSON and stamping a fresh
// ID and the current time.
func NewEvent(eventType, source string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, mediaerr.Wrap(mediaerr.KindConfigError, "eventbus.NewEvent", "payload marshal failed", err)
	}
	return Event{
		Type:      eventType,
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		Payload:   raw,
	}, nil
}

// PayloadAs unmarshals e's payload into a value of type T.
func PayloadAs[T any](e Event) (T, error) {
	var out T
	if err := json.Unmarshal(e.Payload, &out); err != nil {
		return out, mediaerr.Wrap(mediaerr.KindConfigError, "eventbus.PayloadAs", "payload unmarshal failed", err)
	}
	return out, nil
}
