// Package rtp implements the RTP packet codec (spec §4.1) and the SCIP
// RTP payload binding (spec §4.2, RFC 9607).
//
// Header encode/decode is delegated to github.com/pion/rtp, the same
// library the teacher codebase (av/rtp) uses for its audio packetizer;
// this package owns the surrounding validation and error-mapping the
// engine's invariants require, including NOT stripping RTP padding on
// parse — SRTP authenticates the full padded wire form, so padding
// handling belongs to the caller, not the codec.
package rtp

import (
	"github.com/pion/rtp"

	"github.com/coldwire/mediacore/mediaerr"
)

// Extension is a single, generic RTP header extension (RFC 3550 §5.3.1).
// One-byte/two-byte (RFC 8285) extension profiles are not modeled; the
// engine only needs to carry an opaque extension blob end to end.
type Extension struct {
	Profile uint16
	Payload []byte
}

// Packet is the engine's RTP packet representation (spec §3).
type Packet struct {
	Version        uint8
	Padding        bool
	Extension      bool
	CSRCCount      uint8
	Marker         bool
	PayloadType    uint8
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
	CSRC           []uint32
	ExtensionHeader *Extension
	Payload        []byte
}

const minHeaderLen = 12

// Parse decodes an RTP packet from the wire. Any bytes past the declared
// header are returned verbatim as Payload — padding stripping is the
// caller's responsibility (spec §4.1).
func Parse(data []byte) (*Packet, error) {
	if len(data) < minHeaderLen {
		return nil, mediaerr.New(mediaerr.KindInvalidPacket, "rtp.Parse", "buffer shorter than minimum RTP header")
	}
	if version := data[0] >> 6 & 0x3; version != 2 {
		return nil, mediaerr.New(mediaerr.KindInvalidPacket, "rtp.Parse", "unsupported RTP version")
	}

	var h rtp.Header
	n, err := h.Unmarshal(data)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.KindInvalidPacket, "rtp.Parse", "header decode failed", err)
	}

	var csrc []uint32
	if len(h.CSRC) > 0 {
		csrc = append([]uint32(nil), h.CSRC...)
	}

	p := &Packet{
		Version:        h.Version,
		Padding:        h.Padding,
		Extension:      h.Extension,
		CSRCCount:      uint8(len(h.CSRC)),
		Marker:         h.Marker,
		PayloadType:    h.PayloadType,
		SequenceNumber: h.SequenceNumber,
		Timestamp:      h.Timestamp,
		SSRC:           h.SSRC,
		CSRC:           csrc,
		Payload:        data[n:],
	}

	if h.Extension {
		if ids := h.GetExtensionIDs(); len(ids) > 0 {
			p.ExtensionHeader = &Extension{
				Profile: h.ExtensionProfile,
				Payload: append([]byte(nil), h.GetExtension(ids[0])...),
			}
		}
	}

	return p, nil
}

// toRtpHeader builds the pion/rtp header pion needs to marshal p, without
// touching the payload.
func (p *Packet) toRtpHeader() (rtp.Header, error) {
	if int(p.CSRCCount) != len(p.CSRC) {
		return rtp.Header{}, mediaerr.New(mediaerr.KindInvalidPacket, "rtp.Serialize", "CSRC count does not match CSRC list length")
	}
	if len(p.CSRC) > 15 {
		return rtp.Header{}, mediaerr.New(mediaerr.KindInvalidPacket, "rtp.Serialize", "too many CSRC identifiers")
	}

	h := rtp.Header{
		Version:        2,
		Padding:        p.Padding,
		Marker:         p.Marker,
		PayloadType:    p.PayloadType,
		SequenceNumber: p.SequenceNumber,
		Timestamp:      p.Timestamp,
		SSRC:           p.SSRC,
		CSRC:           p.CSRC,
	}

	if p.Extension && p.ExtensionHeader != nil {
		h.Extension = true
		h.ExtensionProfile = p.ExtensionHeader.Profile
		if err := h.SetExtension(0, p.ExtensionHeader.Payload); err != nil {
			return rtp.Header{}, mediaerr.Wrap(mediaerr.KindInvalidPacket, "rtp.Serialize", "extension encode failed", err)
		}
	}
	return h, nil
}

// Serialize encodes p back to wire bytes (RFC 3550 field order, big-endian).
func (p *Packet) Serialize() ([]byte, error) {
	h, err := p.toRtpHeader()
	if err != nil {
		return nil, err
	}

	headerBytes, err := h.Marshal()
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.KindInvalidPacket, "rtp.Serialize", "header encode failed", err)
	}

	out := make([]byte, 0, len(headerBytes)+len(p.Payload))
	out = append(out, headerBytes...)
	out = append(out, p.Payload...)
	return out, nil
}

// HeaderBytes encodes only p's RTP header, with no payload. SRTP uses this
// to authenticate the header separately from the encrypted payload
// (spec §4.5).
func (p *Packet) HeaderBytes() ([]byte, error) {
	h, err := p.toRtpHeader()
	if err != nil {
		return nil, err
	}
	headerBytes, err := h.Marshal()
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.KindInvalidPacket, "rtp.HeaderBytes", "header encode failed", err)
	}
	return headerBytes, nil
}
