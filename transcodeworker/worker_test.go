package transcodeworker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldwire/mediacore/eventbus"
)

type fakeProcessor struct {
	fail bool
}

func (p *fakeProcessor) Process(ctx context.Context, m UploadedMedia) (PlaybackURLs, error) {
	if p.fail {
		return PlaybackURLs{}, errors.New("transcode failed")
	}
	return PlaybackURLs{Original: m.FilePath, HD: m.FilePath + ".hd.mp4"}, nil
}

func TestWorkerPublishesMediaReadyOnSuccess(t *testing.T) {
	bus := eventbus.NewMemoryBus()
	w := NewWorker(bus, &fakeProcessor{})

	ready := make(chan eventbus.Event, 1)
	_, err := bus.Subscribe(subjectMediaReady, func(e eventbus.Event) { ready <- e })
	require.NoError(t, err)

	sub, err := w.Run()
	require.NoError(t, err)
	defer sub.Unsubscribe()

	e, err := eventbus.NewEvent(subjectMediaUploaded, "test", UploadedMedia{MediaID: "m1", FilePath: "/tmp/m1"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(subjectMediaUploaded, e))

	select {
	case got := <-ready:
		out, err := eventbus.PayloadAs[ReadyMedia](got)
		require.NoError(t, err)
		assert.Equal(t, "m1", out.MediaID)
		assert.Equal(t, "/tmp/m1.hd.mp4", out.Playback.HD)
	case <-time.After(time.Second):
		t.Fatal("expected media.ready event")
	}
}

func TestWorkerDoesNotPublishOnProcessingFailure(t *testing.T) {
	bus := eventbus.NewMemoryBus()
	w := NewWorker(bus, &fakeProcessor{fail: true})

	published := false
	_, err := bus.Subscribe(subjectMediaReady, func(eventbus.Event) { published = true })
	require.NoError(t, err)

	sub, err := w.Run()
	require.NoError(t, err)
	defer sub.Unsubscribe()

	e, err := eventbus.NewEvent(subjectMediaUploaded, "test", UploadedMedia{MediaID: "m2"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(subjectMediaUploaded, e))

	assert.False(t, published)
}
