// Package transcodeworker consumes media.uploaded events, runs them
// through a Processor, and publishes media.ready. Grounded on
// media-processor/src/worker.rs's MediaWorker, restyled to use this
// module's eventbus.Bus instead of a bespoke message-bus trait.
package transcodeworker

import (
	"context"

	"github.com/coldwire/mediacore/eventbus"
	"github.com/coldwire/mediacore/mlog"
)

const (
	subjectMediaUploaded = "media.uploaded"
	subjectMediaReady    = "media.ready"
)

// UploadedMedia is the payload of a media.uploaded event
// (armoricore-types MediaUploadedPayload).
type UploadedMedia struct {
	MediaID     string `json:"media_id"`
	UserID      string `json:"user_id"`
	FilePath    string `json:"file_path"`
	ContentType string `json:"content_type"`
}

// PlaybackURLs names the renditions a Processor produced for one media
// item (armoricore-types PlaybackUrls).
type PlaybackURLs struct {
	Original string `json:"original"`
	HD       string `json:"hd,omitempty"`
	SD       string `json:"sd,omitempty"`
}

// ReadyMedia is the payload of a media.ready event.
type ReadyMedia struct {
	MediaID  string       `json:"media_id"`
	Playback PlaybackURLs `json:"playback"`
}

// Processor transcodes one uploaded media item into its playback
// renditions. Implementations own the actual codec/storage work; the
// worker owns only event routing.
type Processor interface {
	Process(ctx context.Context, m UploadedMedia) (PlaybackURLs, error)
}

// Worker subscribes to media.uploaded and publishes media.ready for each
// item a Processor completes successfully.
type Worker struct {
	bus       eventbus.Bus
	processor Processor
	log       *mlog.Logger
}

// NewWorker wires a Worker to bus and processor.
func NewWorker(bus eventbus.Bus, processor Processor) *Worker {
	return &Worker{bus: bus, processor: processor, log: mlog.New("transcodeworker", "NewWorker")}
}

// Run subscribes to media.uploaded and processes events until Unsubscribe
// is called on the returned Subscription.
func (w *Worker) Run() (eventbus.Subscription, error) {
	return w.bus.Subscribe(subjectMediaUploaded, func(e eventbus.Event) {
		m, err := eventbus.PayloadAs[UploadedMedia](e)
		if err != nil {
			w.log.WithError(err, "Run").Warn("dropping malformed media.uploaded event")
			return
		}
		w.process(context.Background(), m)
	})
}

func (w *Worker) process(ctx context.Context, m UploadedMedia) {
	log := w.log.WithField("media_id", m.MediaID).WithField("user_id", m.UserID)
	log.Info("processing media upload")

	playback, err := w.processor.Process(ctx, m)
	if err != nil {
		log.WithError(err, "process").Error("media processing failed")
		return
	}

	event, err := eventbus.NewEvent(subjectMediaReady, "transcodeworker", ReadyMedia{MediaID: m.MediaID, Playback: playback})
	if err != nil {
		log.WithError(err, "process").Error("failed to build media.ready event")
		return
	}
	if err := w.bus.Publish(subjectMediaReady, event); err != nil {
		log.WithError(err, "process").Error("failed to publish media.ready")
	}
}
