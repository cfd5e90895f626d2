// Package health tracks per-stream connection quality (spec §4.8):
// a bounded window of samples feeding an exponentially-weighted RTT,
// RFC 3550 interarrival jitter, and a windowed loss rate, read back as a
// single atomic snapshot. Grounded on the teacher's av/quality.go
// (QualityLevel categorization, mutex-guarded monitor) and wired to
// github.com/pion/rtcp for the reception-report shape callers hand off
// to SRTCP (spec §4.5's "callers may count them for SRTCP reports").
package health

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/rtcp"
)

// windowSize bounds how many samples contribute to the loss-rate
// computation (spec §4.8 "bounded window of samples").
const windowSize = 64

// rttAlpha and jitterAlpha are the exponential-smoothing weights for RTT
// and jitter, respectively; jitterAlpha = 1/16 matches RFC 3550 §6.4.1's
// interarrival jitter recurrence exactly, while rttAlpha = 1/8 follows
// the same family of estimator used for TCP RTT smoothing.
const (
	rttAlpha    = 0.125
	jitterAlpha = 1.0 / 16.0
)

// Sample is one observed network measurement (spec §3 Network Metrics
// Sample), submitted by the RTP/RTCP receive loop.
type Sample struct {
	RTT       time.Duration
	Lost      bool
	Jitter    time.Duration
	Bandwidth float64 // kbps
	Timestamp time.Time
}

// Snapshot is the point-in-time read of a Monitor's derived metrics.
type Snapshot struct {
	SmoothedRTT    time.Duration
	SmoothedJitter time.Duration
	LossRate       float64
	Bandwidth      float64
	SSRC           uint32
	LastSequence   uint32
}

// ToReceptionReport converts s into an RTCP reception report block
// (RFC 3550 §6.4.1) suitable for inclusion in an outgoing SRTCP packet.
func (s Snapshot) ToReceptionReport() rtcp.ReceptionReport {
	return rtcp.ReceptionReport{
		SSRC:               s.SSRC,
		FractionLost:       uint8(s.LossRate * 256),
		LastSequenceNumber: s.LastSequence,
		Jitter:             uint32(s.SmoothedJitter.Microseconds()),
	}
}

// Monitor accumulates samples for a single stream and exposes a
// lock-free Snapshot read (spec §4.8: "readers get a snapshot with a
// single atomic load of the current sample").
type Monitor struct {
	mu sync.Mutex

	ssrc         uint32
	lastSeq      uint32
	window       [windowSize]bool
	windowFilled int
	windowPos    int

	hasRTT bool
	rtt    time.Duration

	hasJitter bool
	jitter    time.Duration

	bandwidth float64

	snapshot atomic.Value // holds Snapshot
}

// NewMonitor returns a Monitor for ssrc with an empty sample window.
func NewMonitor(ssrc uint32) *Monitor {
	m := &Monitor{ssrc: ssrc}
	m.snapshot.Store(Snapshot{SSRC: ssrc})
	return m
}

// Submit records a new sample, updating the smoothed RTT, smoothed
// jitter, windowed loss rate, and published Snapshot.
func (m *Monitor) Submit(seq uint32, s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSeq = seq

	if m.hasRTT {
		m.rtt += time.Duration(rttAlpha * float64(s.RTT-m.rtt))
	} else {
		m.rtt = s.RTT
		m.hasRTT = true
	}

	if m.hasJitter {
		delta := s.Jitter - m.jitter
		m.jitter += time.Duration(jitterAlpha * float64(delta))
	} else {
		m.jitter = s.Jitter
		m.hasJitter = true
	}

	m.bandwidth = s.Bandwidth

	m.window[m.windowPos] = s.Lost
	m.windowPos = (m.windowPos + 1) % windowSize
	if m.windowFilled < windowSize {
		m.windowFilled++
	}

	lost := 0
	for i := 0; i < m.windowFilled; i++ {
		if m.window[i] {
			lost++
		}
	}
	lossRate := 0.0
	if m.windowFilled > 0 {
		lossRate = float64(lost) / float64(m.windowFilled)
	}

	m.snapshot.Store(Snapshot{
		SmoothedRTT:    m.rtt,
		SmoothedJitter: m.jitter,
		LossRate:       lossRate,
		Bandwidth:      m.bandwidth,
		SSRC:           m.ssrc,
		LastSequence:   m.lastSeq,
	})
}

// Snapshot returns the most recently published Snapshot without
// blocking on concurrent Submit calls.
func (m *Monitor) Snapshot() Snapshot {
	return m.snapshot.Load().(Snapshot)
}
