package eventbus

// Handler receives events delivered to a subscription. A handler that wants
// to stop receiving further events should use the Subscription returned by
// Subscribe.
type Handler func(Event)

// Subscription is a live subscription to a subject.
type Subscription interface {
	// Unsubscribe stops delivery. Idempotent.
	Unsubscribe() error
}

// Bus is the capability interface the engine's surrounding services consume
// (spec §9: "model as a capability interface with named operations; the
// engine owns an erased handle supplied at construction"). The core media
// engine itself never depends on Bus directly.
type Bus interface {
	// Publish sends event on subject.
	Publish(subject string, event Event) error

	// Subscribe delivers every event published on subject to handler,
	// best-effort, until the returned Subscription is closed.
	Subscribe(subject string, handler Handler) (Subscription, error)

	// IsConnected reports whether the underlying transport is currently
	// usable.
	IsConnected() bool

	// Close releases the underlying transport.
	Close() error
}
