package notifyworker

import "context"

// Notification is the payload of a notification.requested event
// (armoricore-types NotificationRequestedPayload).
type Notification struct {
	UserID string
	Type   string
	Title  string
	Body   string
}

// Sender delivers one Notification through a concrete channel (push,
// email, SMS). Implementations are provided by the caller; notifyworker
// owns only the rate-limiting, retry, and dead-letter policy around them.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}
