package eventbus

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/coldwire/mediacore/mediaerr"
	"github.com/coldwire/mediacore/mlog"
)

// NatsBus is a Bus backed by a plain NATS connection (core NATS, not
// JetStream: the reference client's stream bookkeeping is out of scope for
// the "best-effort stream" the spec asks for). Grounded on
// message-bus-client/src/nats.rs's NatsClient, restyled after the teacher's
// connection-wrapper pattern in dht/bootstrap.go (construction-time dial,
// mutex-free since *nats.Conn is already safe for concurrent use).
type NatsBus struct {
	conn *nats.Conn
	log  *mlog.Logger
}

// NewNatsBus dials url and returns a ready-to-use Bus.
func NewNatsBus(url string) (*NatsBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.KindNetworkError, "eventbus.NewNatsBus", "connect to NATS failed", err)
	}
	return &NatsBus{conn: conn, log: mlog.New("eventbus", "NewNatsBus")}, nil
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s *natsSubscription) Unsubscribe() error {
	if s.sub == nil {
		return nil
	}
	if err := s.sub.Unsubscribe(); err != nil {
		return mediaerr.Wrap(mediaerr.KindNetworkError, "eventbus.Unsubscribe", "unsubscribe failed", err)
	}
	return nil
}

// Publish marshals event and publishes it to subject.
func (b *NatsBus) Publish(subject string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return mediaerr.Wrap(mediaerr.KindConfigError, "eventbus.Publish", "event marshal failed", err)
	}
	if err := b.conn.Publish(subject, data); err != nil {
		return mediaerr.Wrap(mediaerr.KindNetworkError, "eventbus.Publish", "publish failed", err)
	}
	b.log.WithField("subject", subject).WithField("event_id", event.ID).Debug("event published")
	return nil
}

// Subscribe delivers every message on subject to handler after decoding it
// as an Event. Decode failures are logged and dropped rather than crashing
// the subscription (spec §7: "no panic on any input-derived condition").
func (b *NatsBus) Subscribe(subject string, handler Handler) (Subscription, error) {
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			b.log.WithError(err, "Subscribe").Warn("dropping malformed event")
			return
		}
		handler(event)
	})
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.KindNetworkError, "eventbus.Subscribe", "subscribe failed", err)
	}
	return &natsSubscription{sub: sub}, nil
}

// IsConnected reports whether the connection is currently open.
func (b *NatsBus) IsConnected() bool {
	return b.conn.IsConnected()
}

// Close closes the underlying connection without draining pending
// messages first.
func (b *NatsBus) Close() error {
	b.conn.Close()
	return nil
}
