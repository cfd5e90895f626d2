package rtp

import (
	"encoding/binary"
	"sync"

	"github.com/coldwire/mediacore/mediaerr"
)

// PacketType is the SCIP packet type (RFC 9607, spec §3).
type PacketType uint8

const (
	PacketTypeAudio   PacketType = 0
	PacketTypeVideo   PacketType = 1
	PacketTypeControl PacketType = 2
	PacketTypeFEC     PacketType = 3
)

// scipHeaderLen is the fixed SCIP header size in bytes (spec §3).
const scipHeaderLen = 7

// ScipPacket is the SCIP payload (RFC 9607, spec §3).
type ScipPacket struct {
	Type           PacketType
	SequenceNumber uint16 // 14 bits on the wire
	Timestamp      uint32
	Payload        []byte
}

// IsKeyframe reports whether a Video packet's payload marks a keyframe
// (high bit of payload[0]).
func (s *ScipPacket) IsKeyframe() bool {
	return s.Type == PacketTypeVideo && len(s.Payload) > 0 && s.Payload[0]&0x80 != 0
}

// FrameNumber decodes the unsigned 31-bit frame number carried in the low
// bits of the first 4 payload bytes of a Video packet, when present.
func (s *ScipPacket) FrameNumber() (uint32, bool) {
	if s.Type != PacketTypeVideo || len(s.Payload) < 4 {
		return 0, false
	}
	b0 := s.Payload[0] &^ 0x80
	return binary.BigEndian.Uint32([]byte{b0, s.Payload[1], s.Payload[2], s.Payload[3]}), true
}

// ParseScip decodes a SCIP packet from a byte slice.
func ParseScip(data []byte) (*ScipPacket, error) {
	if len(data) < scipHeaderLen {
		return nil, mediaerr.New(mediaerr.KindCodecError, "rtp.ParseScip", "SCIP packet shorter than fixed header")
	}

	typ := PacketType(data[0] & 0x3)
	seq := binary.BigEndian.Uint16(data[1:3]) & 0x3FFF
	ts := binary.BigEndian.Uint32(data[3:7])

	var payload []byte
	if len(data) > scipHeaderLen {
		payload = append([]byte(nil), data[scipHeaderLen:]...)
	}

	return &ScipPacket{
		Type:           typ,
		SequenceNumber: seq,
		Timestamp:      ts,
		Payload:        payload,
	}, nil
}

// Serialize encodes a ScipPacket to its 7-byte-header wire form.
func (s *ScipPacket) Serialize() []byte {
	out := make([]byte, scipHeaderLen+len(s.Payload))
	out[0] = byte(s.Type) & 0x3
	binary.BigEndian.PutUint16(out[1:3], s.SequenceNumber&0x3FFF)
	binary.BigEndian.PutUint32(out[3:7], s.Timestamp)
	copy(out[scipHeaderLen:], s.Payload)
	return out
}

// ScipPayloadHandler binds SCIP frames into RTP payload format (spec §4.2).
// It owns the monotonically incrementing RTP sequence number assigned to
// each wrapped packet, independent of the SCIP packet's own sequence
// number carried inside the payload.
type ScipPayloadHandler struct {
	mu             sync.Mutex
	sequenceNumber uint16
}

// NewScipPayloadHandler returns a handler with its internal RTP sequence
// counter starting at 0.
func NewScipPayloadHandler() *ScipPayloadHandler {
	return &ScipPayloadHandler{}
}

// Wrap assigns the next RTP sequence number and produces an RTP packet
// carrying scip as its payload. The marker bit is set iff scip is a
// Video keyframe.
func (h *ScipPayloadHandler) Wrap(scip *ScipPacket, ssrc uint32, payloadType uint8) *Packet {
	h.mu.Lock()
	seq := h.sequenceNumber
	h.sequenceNumber++
	h.mu.Unlock()

	return &Packet{
		Version:        2,
		Marker:         scip.IsKeyframe(),
		PayloadType:    payloadType,
		SequenceNumber: seq,
		Timestamp:      scip.Timestamp,
		SSRC:           ssrc,
		Payload:        scip.Serialize(),
	}
}

// Extract decodes the SCIP packet carried in an RTP packet's payload.
func Extract(p *Packet) (*ScipPacket, error) {
	return ParseScip(p.Payload)
}
