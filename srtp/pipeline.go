// SRTP pipeline (spec §4.5): per-SSRC authenticated encryption over RTP
// packets, with rollover-counter tracking, replay protection, and the
// guessed-ROC recovery algorithm on receive. Grounded on the teacher's
// crypto package for its stdlib-crypto texture (hash/cipher construction
// style) and on the RFC 3711 pseudocode the original Rust engine
// summarizes in key_integration.rs.
package srtp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"sync"

	"github.com/coldwire/mediacore/mediaerr"
	"github.com/coldwire/mediacore/rtp"
)

// authTagLen is the truncated HMAC-SHA1 tag length SRTP appends to every
// protected packet (spec §4.5, §5 wire format).
const authTagLen = 10

// rocWindow bounds how far seq can trail the last accepted sequence before
// it is treated as belonging to the previous half of the ROC range
// (RFC 3711 §3.3.1).
const rocWindow = 32768

// session holds the mutable per-SSRC SRTP state (spec §3). Every field is
// guarded by mu; callers never observe a partially updated session because
// Unprotect only commits after decrypt succeeds.
type session struct {
	mu sync.Mutex

	keys *SessionKeys
	ssrc uint32

	roc     uint32
	highSeq uint16
	hasSeq  bool
	window  *ReplayWindow

	sendSeqSeen bool
	sendHighSeq uint16
	sendROC     uint32
}

// Pipeline implements SRTP protect/unprotect across a set of SSRC-keyed
// sessions (spec §4.5). One Pipeline is expected to serve one connection's
// packet queue; it is safe for concurrent use across distinct SSRCs, but
// per spec §7 concurrency discipline, a single session's packets should be
// handled by one caller at a time to keep ROC/replay updates ordered.
type Pipeline struct {
	mu       sync.RWMutex
	sessions map[uint32]*session
}

// NewPipeline returns an empty pipeline with no provisioned sessions.
func NewPipeline() *Pipeline {
	return &Pipeline{sessions: make(map[uint32]*session)}
}

// AddSession provisions SRTP state for ssrc, deriving session keys from
// masterKey/masterSalt and starting the rollover counter at initialROC.
func (p *Pipeline) AddSession(ssrc uint32, masterKey, masterSalt []byte, initialROC uint32) error {
	keys, err := DeriveSessionKeys(masterKey, masterSalt)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[ssrc] = &session{
		keys:    keys,
		ssrc:    ssrc,
		roc:     initialROC,
		sendROC: initialROC,
		window:  NewReplayWindow(),
	}
	return nil
}

// RemoveSession discards SRTP state for ssrc; subsequent Protect/Unprotect
// calls against it fail with KindKeyNotFound.
func (p *Pipeline) RemoveSession(ssrc uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, ssrc)
}

func (p *Pipeline) sessionFor(ssrc uint32) (*session, error) {
	p.mu.RLock()
	s, ok := p.sessions[ssrc]
	p.mu.RUnlock()
	if !ok {
		return nil, mediaerr.New(mediaerr.KindKeyNotFound, "srtp.Pipeline", "no SRTP session provisioned for SSRC")
	}
	return s, nil
}

// aesCM runs AES in counter mode (AES-CM, spec §4.5) over src using key and
// the 16-byte counter block iv, returning the result in a new slice.
func aesCM(key, iv, src []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.KindSrtpDecrypt, "srtp.aesCM", "AES cipher init failed", err)
	}
	stream := cipher.NewCTR(block, iv)
	out := make([]byte, len(src))
	stream.XORKeyStream(out, src)
	return out, nil
}

// counterBlock builds the AES-CM input block for a given SSRC/ROC/sequence
// under salt (RFC 3711 §4.1.1): the 14-byte salt zero-padded to 16 bytes,
// XORed with the SSRC at byte offset 4, the ROC at offset 8, and the
// sequence number at offset 12.
func counterBlock(salt []byte, ssrc uint32, roc uint32, seq uint16) []byte {
	iv := make([]byte, 16)
	binary.BigEndian.PutUint32(iv[4:8], ssrc)
	binary.BigEndian.PutUint32(iv[8:12], roc)
	binary.BigEndian.PutUint16(iv[12:14], seq)
	for i := range salt {
		iv[i] ^= salt[i]
	}
	return iv
}

// authTag computes the 80-bit (truncated) HMAC-SHA1 tag over header,
// ciphertext payload, and the ROC that produced them (spec §4.5).
func authTag(authKey, header, ciphertext []byte, roc uint32) []byte {
	mac := hmac.New(sha1.New, authKey)
	mac.Write(header)
	mac.Write(ciphertext)
	var rocBytes [4]byte
	binary.BigEndian.PutUint32(rocBytes[:], roc)
	mac.Write(rocBytes[:])
	return mac.Sum(nil)[:authTagLen]
}

// advanceSendROC detects sequence-number wraparound on the send side: a
// new sequence far below the last one sent means the 16-bit counter
// rolled over, so the rollover counter advances (spec §3 ROC invariant).
func advanceSendROC(s *session, seq uint16) {
	if s.sendSeqSeen && seq < s.sendHighSeq && s.sendHighSeq-seq > rocWindow {
		s.sendROC++
	}
	s.sendSeqSeen = true
	s.sendHighSeq = seq
}

// Protect encrypts pkt's payload and appends the authentication tag,
// returning the full SRTP wire form (spec §4.5).
func (p *Pipeline) Protect(pkt *rtp.Packet) ([]byte, error) {
	s, err := p.sessionFor(pkt.SSRC)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	advanceSendROC(s, pkt.SequenceNumber)
	roc := s.sendROC

	header, err := pkt.HeaderBytes()
	if err != nil {
		return nil, err
	}

	iv := counterBlock(s.keys.Salt, pkt.SSRC, roc, pkt.SequenceNumber)
	ciphertext, err := aesCM(s.keys.EncryptionKey, iv, pkt.Payload)
	if err != nil {
		return nil, err
	}

	tag := authTag(s.keys.AuthenticationKey, header, ciphertext, roc)

	out := make([]byte, 0, len(header)+len(ciphertext)+len(tag))
	out = append(out, header...)
	out = append(out, ciphertext...)
	out = append(out, tag...)
	return out, nil
}

// rocCandidates returns the ROC values to try when recovering the 48-bit
// packet index from a 16-bit wire sequence number (spec §4.5, RFC 3711
// §3.3.1 guessed-ROC heuristic).
func rocCandidates(roc uint32) []uint32 {
	candidates := make([]uint32, 0, 3)
	if roc > 0 {
		candidates = append(candidates, roc-1)
	}
	candidates = append(candidates, roc)
	candidates = append(candidates, roc+1)
	return candidates
}

// Unprotect verifies, replay-checks, and decrypts an SRTP wire packet,
// returning the recovered RTP packet (spec §4.5). State (ROC, highest
// sequence, replay window) is only committed after every step succeeds.
func (p *Pipeline) Unprotect(data []byte) (*rtp.Packet, error) {
	if len(data) < authTagLen {
		return nil, mediaerr.New(mediaerr.KindSrtpAuth, "srtp.Pipeline.Unprotect", "packet shorter than authentication tag")
	}
	body := data[:len(data)-authTagLen]
	tag := data[len(data)-authTagLen:]

	pkt, err := rtp.Parse(body)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.KindSrtpAuth, "srtp.Pipeline.Unprotect", "RTP header decode failed", err)
	}

	s, err := p.sessionFor(pkt.SSRC)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	header, err := pkt.HeaderBytes()
	if err != nil {
		return nil, err
	}
	ciphertext := pkt.Payload

	var (
		acceptedROC   uint32
		acceptedIndex uint64
		authenticated bool
	)
	for _, candidate := range rocCandidates(s.roc) {
		wantTag := authTag(s.keys.AuthenticationKey, header, ciphertext, candidate)
		if !hmac.Equal(wantTag, tag) {
			continue
		}

		index := packetIndex(candidate, pkt.SequenceNumber)
		if !s.hasSeq || index > packetIndex(s.roc, s.highSeq) || withinWindow(index, s) {
			acceptedROC = candidate
			acceptedIndex = index
			authenticated = true
			break
		}
	}

	if !authenticated {
		return nil, mediaerr.New(mediaerr.KindSrtpAuth, "srtp.Pipeline.Unprotect", "authentication failed for all candidate ROC values")
	}

	if err := s.window.Check(acceptedIndex); err != nil {
		return nil, err
	}

	plaintext, err := aesCM(s.keys.EncryptionKey, counterBlock(s.keys.Salt, pkt.SSRC, acceptedROC, pkt.SequenceNumber), ciphertext)
	if err != nil {
		return nil, err
	}

	if err := s.window.Commit(acceptedIndex); err != nil {
		return nil, err
	}
	s.roc = acceptedROC
	s.highSeq = pkt.SequenceNumber
	s.hasSeq = true

	pkt.Payload = plaintext
	return pkt, nil
}

// packetIndex folds a rollover counter and 16-bit sequence into the
// 48-bit SRTP packet index (spec §3).
func packetIndex(roc uint32, seq uint16) uint64 {
	return uint64(roc)<<16 | uint64(seq)
}

// withinWindow reports whether index falls inside the session's replay
// window relative to its current highest accepted index, used only to
// decide ROC-candidate acceptance; the authoritative replay decision is
// still s.window.Check.
func withinWindow(index uint64, s *session) bool {
	if !s.hasSeq {
		return true
	}
	highest := packetIndex(s.roc, s.highSeq)
	if index > highest {
		return true
	}
	return highest-index < replayWindowSize
}
