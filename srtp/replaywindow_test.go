package srtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldwire/mediacore/mediaerr"
)

func TestReplayWindowFirstPacketAlwaysAccepted(t *testing.T) {
	w := NewReplayWindow()
	require.NoError(t, w.Commit(1000))
	assert.Equal(t, uint64(1000), w.Highest())
}

func TestReplayWindowRejectsExactDuplicate(t *testing.T) {
	w := NewReplayWindow()
	require.NoError(t, w.Commit(1000))
	err := w.Commit(1000)
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindSrtpReplay))
}

func TestReplayWindowAcceptsInOrderAdvance(t *testing.T) {
	w := NewReplayWindow()
	require.NoError(t, w.Commit(1000))
	require.NoError(t, w.Commit(1001))
	assert.Equal(t, uint64(1001), w.Highest())
}

func TestReplayWindowAcceptsMinorReorderingWithinWidth(t *testing.T) {
	w := NewReplayWindow()
	require.NoError(t, w.Commit(1000))
	require.NoError(t, w.Commit(1010))
	// 1005 is behind 1010 but within 64 and unseen.
	require.NoError(t, w.Commit(1005))
}

func TestReplayWindowRejectsReplayOfReorderedPacket(t *testing.T) {
	w := NewReplayWindow()
	require.NoError(t, w.Commit(1000))
	require.NoError(t, w.Commit(1010))
	require.NoError(t, w.Commit(1005))
	err := w.Commit(1005)
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindSrtpReplay))
}

func TestReplayWindowRejectsTooOld(t *testing.T) {
	w := NewReplayWindow()
	require.NoError(t, w.Commit(1000))
	require.NoError(t, w.Commit(2000))
	err := w.Commit(1000) // 1000 positions behind 2000, well past width 64
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindSrtpTooOld))
}

func TestReplayWindowCheckDoesNotMutate(t *testing.T) {
	w := NewReplayWindow()
	require.NoError(t, w.Commit(1000))
	require.NoError(t, w.Check(1001))
	// Checking again should still say it's acceptable, since Check never committed.
	require.NoError(t, w.Check(1001))
	assert.Equal(t, uint64(1000), w.Highest())
}

func TestReplayWindowLargeForwardJumpClearsWindow(t *testing.T) {
	w := NewReplayWindow()
	require.NoError(t, w.Commit(1000))
	require.NoError(t, w.Commit(1000+1000))
	// An index just behind the old highest should now be too old.
	err := w.Check(999)
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindSrtpTooOld))
}
