package srtp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldwire/mediacore/mediaerr"
	"github.com/coldwire/mediacore/rtp"
)

const testSSRC = 0xCAFEBABE

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p := NewPipeline()
	require.NoError(t, p.AddSession(testSSRC, testMasterKey(), testMasterSalt(), 0))
	return p
}

func testPacket(seq uint16, ts uint32, payload []byte) *rtp.Packet {
	return &rtp.Packet{
		Version:        2,
		PayloadType:    96,
		SequenceNumber: seq,
		Timestamp:      ts,
		SSRC:           testSSRC,
		Payload:        payload,
	}
}

// TestProtectUnprotectRoundTrip covers scenario S1: a 20-byte payload
// protects to 12 (header) + 20 (ciphertext) + 10 (tag) = 42 bytes, and
// unprotect recovers the original packet.
func TestProtectUnprotectRoundTrip(t *testing.T) {
	p := newTestPipeline(t)
	payload := bytes.Repeat([]byte{0xAA}, 20)
	pkt := testPacket(1000, 160000, payload)

	wire, err := p.Protect(pkt)
	require.NoError(t, err)
	assert.Len(t, wire, 42)

	got, err := p.Unprotect(wire)
	require.NoError(t, err)
	assert.Equal(t, payload, got.Payload)
	assert.Equal(t, uint32(160000), got.Timestamp)
	assert.Equal(t, uint16(1000), got.SequenceNumber)
}

// TestUnprotectRejectsReplay covers scenario S2: resending the same
// protected bytes must fail as a replay and leave ROC unchanged.
func TestUnprotectRejectsReplay(t *testing.T) {
	p := newTestPipeline(t)
	wire, err := p.Protect(testPacket(1000, 160000, bytes.Repeat([]byte{0xAA}, 20)))
	require.NoError(t, err)

	_, err = p.Unprotect(wire)
	require.NoError(t, err)

	_, err = p.Unprotect(wire)
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindSrtpReplay))

	s, lookupErr := p.sessionFor(testSSRC)
	require.NoError(t, lookupErr)
	assert.Equal(t, uint32(0), s.roc)
}

// TestRolloverAcrossWrap covers scenario S3: sequence numbers wrapping
// from 65530 through 0 and 1 must carry ROC from 0 to 1, and the
// seq=0/1 packets must still authenticate.
func TestRolloverAcrossWrap(t *testing.T) {
	p := newTestPipeline(t)

	var seqs []uint16
	for s := 65530; s <= 65535; s++ {
		seqs = append(seqs, uint16(s))
	}
	seqs = append(seqs, 0, 1)

	for i, seq := range seqs {
		wire, err := p.Protect(testPacket(seq, uint32(1000+i), []byte("payload")))
		require.NoError(t, err)

		got, err := p.Unprotect(wire)
		require.NoErrorf(t, err, "seq %d should authenticate", seq)
		assert.Equal(t, seq, got.SequenceNumber)
	}

	s, err := p.sessionFor(testSSRC)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), s.roc)
}

func TestUnprotectRejectsCorruptTag(t *testing.T) {
	p := newTestPipeline(t)
	wire, err := p.Protect(testPacket(1, 1, []byte("payload")))
	require.NoError(t, err)

	corrupt := append([]byte(nil), wire...)
	corrupt[len(corrupt)-1] ^= 0xFF

	_, err = p.Unprotect(corrupt)
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindSrtpAuth))
}

func TestUnprotectUnknownSSRCFails(t *testing.T) {
	p := NewPipeline()
	wire, err := func() ([]byte, error) {
		seeded := newTestPipeline(t)
		return seeded.Protect(testPacket(1, 1, []byte("payload")))
	}()
	require.NoError(t, err)

	_, err = p.Unprotect(wire)
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindKeyNotFound))
}

func TestRemoveSessionInvalidatesFurtherUse(t *testing.T) {
	p := newTestPipeline(t)
	p.RemoveSession(testSSRC)
	_, err := p.Protect(testPacket(1, 1, []byte("x")))
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindKeyNotFound))
}
