// Package mediaerr defines the typed error taxonomy shared by the
// real-time media engine's packages.
//
// Every component returns a *mediaerr.Error carrying a Kind so callers can
// branch on failure class with errors.Is/errors.As instead of matching
// message text.
package mediaerr

import (
	"errors"
	"fmt"
)

// Kind classifies the failure a component reported.
type Kind string

const (
	KindRtpParseError     Kind = "rtp_parse_error"
	KindInvalidPacket     Kind = "invalid_packet"
	KindCodecError        Kind = "codec_error"
	KindSrtpAuth          Kind = "srtp_auth"
	KindSrtpDecrypt       Kind = "srtp_decrypt"
	KindSrtpReplay        Kind = "srtp_replay"
	KindSrtpTooOld        Kind = "srtp_too_old"
	KindSrtpKeyDerivation Kind = "srtp_key_derivation"
	KindKeyNotFound       Kind = "key_not_found"
	KindKeyFormat         Kind = "key_format"
	KindKeyPermission     Kind = "key_permission_denied"
	KindStreamNotFound    Kind = "stream_not_found"
	KindStreamExists      Kind = "stream_exists"
	KindInvalidStreamState Kind = "invalid_stream_state"
	KindBufferError       Kind = "buffer_error"
	KindNetworkError      Kind = "network_error"
	KindConfigError       Kind = "config_error"

	KindRelayInvalidRequest       Kind = "relay_invalid_request"
	KindRelayAllocationNotFound   Kind = "relay_allocation_not_found"
	KindRelayAllocationExpired    Kind = "relay_allocation_expired"
	KindRelayPermissionDenied     Kind = "relay_permission_denied"
	KindRelayStunTurn             Kind = "relay_stun_turn"
	KindRelayServer               Kind = "relay_server"
)

// Error is the concrete typed error every package in this module returns.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, letting
// callers write errors.Is(err, mediaerr.New(mediaerr.KindSrtpAuth, "", "")).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New constructs an *Error with no wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap constructs an *Error around an underlying cause, translating library
// failures into the engine's own taxonomy without leaking the underlying type.
func Wrap(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Transient reports whether the error class is worth retrying at a higher
// layer (spec §7): network failures and relay server or STUN/TURN errors
// are transient; every other kind, including parse, auth and not-found
// failures, is permanent.
func Transient(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindNetworkError, KindRelayServer, KindRelayStunTurn:
		return true
	default:
		return false
	}
}
