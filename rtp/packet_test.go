package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripSimplePacket(t *testing.T) {
	p := &Packet{
		Version:        2,
		Marker:         true,
		PayloadType:    97,
		SequenceNumber: 1000,
		Timestamp:      160000,
		SSRC:           0xCAFEBABE,
		Payload:        []byte{0xAA, 0xAA, 0xAA, 0xAA},
	}

	wire, err := p.Serialize()
	require.NoError(t, err)
	assert.Equal(t, 12+4, len(wire))

	got, err := Parse(wire)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestRoundTripWithCSRC(t *testing.T) {
	p := &Packet{
		Version:        2,
		PayloadType:    8,
		SequenceNumber: 42,
		Timestamp:      9000,
		SSRC:           111,
		CSRCCount:      2,
		CSRC:           []uint32{1, 2},
		Payload:        []byte("hi"),
	}
	wire, err := p.Serialize()
	require.NoError(t, err)
	assert.Equal(t, 12+8+2, len(wire))

	got, err := Parse(wire)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestParseRejectsShortBuffer(t *testing.T) {
	_, err := Parse(make([]byte, 8))
	require.Error(t, err)
}

func TestParseRejectsBadVersion(t *testing.T) {
	data := make([]byte, 12)
	data[0] = 0x00 // version 0
	_, err := Parse(data)
	require.Error(t, err)
}

func TestParseRejectsTruncatedCSRC(t *testing.T) {
	data := make([]byte, 12)
	data[0] = 0x82 // version 2, CC=2, but no CSRC bytes present
	_, err := Parse(data)
	require.Error(t, err)
}

func TestSerializeRejectsMismatchedCsrcCount(t *testing.T) {
	p := &Packet{
		Version:   2,
		CSRCCount: 3,
		CSRC:      []uint32{1, 2},
	}
	_, err := p.Serialize()
	require.Error(t, err)
}

func TestSerializePreservesPayloadPastDeclaredHeader(t *testing.T) {
	p := &Packet{Version: 2, SequenceNumber: 1, Payload: []byte{0x01, 0x02, 0x03}}
	wire, err := p.Serialize()
	require.NoError(t, err)

	got, err := Parse(wire)
	require.NoError(t, err)
	assert.Equal(t, p.Payload, got.Payload)
}
