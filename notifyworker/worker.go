package notifyworker

import (
	"context"

	"github.com/coldwire/mediacore/eventbus"
	"github.com/coldwire/mediacore/mlog"
)

const (
	subjectNotificationRequested = "notification.requested"
	subjectDeadLetter            = "notification.dead_letter"
)

// deadLetter is published when a notification exhausts its retries
// (notification-worker/src/dead_letter_queue.rs DeadLetterPayload).
type deadLetter struct {
	OriginalEventID string `json:"original_event_id"`
	UserID          string `json:"user_id"`
	FailureReason   string `json:"failure_reason"`
	RetryCount      uint32 `json:"retry_count"`
}

// Worker subscribes to notification.requested events and dispatches each
// through Sender, rate-limited and retried with exponential backoff;
// exhausted retries are published to notification.dead_letter.
type Worker struct {
	bus     eventbus.Bus
	sender  Sender
	limiter *RateLimiter
	retry   RetryConfig
	log     *mlog.Logger
}

// NewWorker wires a Worker to bus and sender using the given rate limiter
// and retry policy.
func NewWorker(bus eventbus.Bus, sender Sender, limiter *RateLimiter, retry RetryConfig) *Worker {
	return &Worker{
		bus:     bus,
		sender:  sender,
		limiter: limiter,
		retry:   retry,
		log:     mlog.New("notifyworker", "NewWorker"),
	}
}

// Run subscribes to notification.requested and processes events until
// Unsubscribe is called on the returned Subscription.
func (w *Worker) Run() (eventbus.Subscription, error) {
	return w.bus.Subscribe(subjectNotificationRequested, func(e eventbus.Event) {
		n, err := eventbus.PayloadAs[Notification](e)
		if err != nil {
			w.log.WithError(err, "Run").Warn("dropping malformed notification.requested event")
			return
		}
		w.process(context.Background(), e.ID.String(), n)
	})
}

func (w *Worker) process(ctx context.Context, eventID string, n Notification) {
	if !w.limiter.TryAcquire() {
		w.log.WithField("user_id", n.UserID).Warn("notification dropped: rate limit exceeded")
		return
	}

	_, err := RetryWithBackoff(ctx, w.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, w.sender.Send(ctx, n)
	})
	if err == nil {
		return
	}

	w.log.WithError(err, "process").Error("notification delivery failed after retries")
	dl, buildErr := eventbus.NewEvent("notification.failed", "notifyworker", deadLetter{
		OriginalEventID: eventID,
		UserID:          n.UserID,
		FailureReason:   err.Error(),
		RetryCount:      w.retry.MaxRetries,
	})
	if buildErr != nil {
		w.log.WithError(buildErr, "process").Error("failed to build dead-letter event")
		return
	}
	if pubErr := w.bus.Publish(subjectDeadLetter, dl); pubErr != nil {
		w.log.WithError(pubErr, "process").Error("failed to publish to dead-letter queue")
	}
}
