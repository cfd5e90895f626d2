package srtp

import (
	"sync"

	"github.com/coldwire/mediacore/mediaerr"
)

// replayWindowSize is the width of the sliding bitmap (spec §4.3).
const replayWindowSize = 64

// ReplayWindow is a sliding 64-bit window over 48-bit SRTP packet
// indices (ROC*2^16 + sequence), preventing acceptance of an index that
// has already been seen or that falls too far behind the highest index
// accepted so far.
//
// The window itself carries no authentication: callers must verify the
// packet's SRTP tag before calling Commit (spec §4.3, §4.5).
type ReplayWindow struct {
	mu          sync.Mutex
	initialized bool
	highest     uint64
	bits        uint64
}

// NewReplayWindow returns an empty window that will accept any index as
// its first packet.
func NewReplayWindow() *ReplayWindow {
	return &ReplayWindow{}
}

// Highest returns the highest 48-bit index accepted so far.
func (w *ReplayWindow) Highest() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.highest
}

// Check reports whether index would be accepted, without mutating state.
// Use this before decrypting a candidate packet so a failed decrypt
// never needs to be rolled back.
func (w *ReplayWindow) Check(index uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _, err := w.evaluate(index)
	return err
}

// Commit records index as accepted. Callers must only call Commit after
// Check returned nil and the packet authenticated and decrypted
// successfully (spec §4.5's auth -> replay -> decrypt -> commit order).
func (w *ReplayWindow) Commit(index uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	newHighest, newBits, err := w.evaluate(index)
	if err != nil {
		return err
	}
	w.initialized = true
	w.highest = newHighest
	w.bits = newBits
	return nil
}

// evaluate computes the outcome of accepting index against the current
// state without mutating it, returning the state that Commit should
// apply on success.
func (w *ReplayWindow) evaluate(index uint64) (newHighest, newBits uint64, err error) {
	if !w.initialized {
		return index, 1, nil
	}

	h := w.highest
	switch {
	case index > h:
		shift := index - h
		bits := w.bits
		if shift >= replayWindowSize {
			bits = 0
		} else {
			bits <<= shift
		}
		bits |= 1
		return index, bits, nil

	case index == h:
		return 0, 0, mediaerr.New(mediaerr.KindSrtpReplay, "srtp.ReplayWindow", "duplicate of highest accepted index")

	default:
		offset := h - index
		if offset >= replayWindowSize {
			return 0, 0, mediaerr.New(mediaerr.KindSrtpTooOld, "srtp.ReplayWindow", "index older than replay window width")
		}
		if w.bits&(1<<offset) != 0 {
			return 0, 0, mediaerr.New(mediaerr.KindSrtpReplay, "srtp.ReplayWindow", "index already accepted within window")
		}
		return h, w.bits | (1 << offset), nil
	}
}
