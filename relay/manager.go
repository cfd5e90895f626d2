package relay

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coldwire/mediacore/clockutil"
	"github.com/coldwire/mediacore/mediaerr"
	"github.com/coldwire/mediacore/mlog"
)

// DefaultMaxAllocations is the allocation cap used when no explicit
// configuration overrides it.
const DefaultMaxAllocations = 1000

// Manager tracks active allocations, enforcing a maximum allocation count
// and exposing an expiry sweep (spec §4.6).
type Manager struct {
	mu              sync.RWMutex
	allocations     map[uuid.UUID]*Allocation
	defaultLifetime time.Duration
	maxAllocations  int
	clock           clockutil.Clock
	log             *mlog.Logger
}

// NewManager returns a Manager that issues allocations with defaultLifetime
// when Create is called without an explicit lifetime, rejecting new
// allocations once maxAllocations are active.
func NewManager(defaultLifetime time.Duration, maxAllocations int) *Manager {
	return &Manager{
		allocations:     make(map[uuid.UUID]*Allocation),
		defaultLifetime: defaultLifetime,
		maxAllocations:  maxAllocations,
		clock:           clockutil.Default,
		log:             mlog.New("relay", "Manager"),
	}
}

// WithClock overrides the manager's time source, for deterministic tests
// of lifetime expiry.
func (m *Manager) WithClock(clock clockutil.Clock) *Manager {
	m.clock = clock
	return m
}

// Create provisions a new allocation between clientAddr and relayAddr. A
// zero lifetime uses the manager's default. Fails with
// KindRelayServer once maxAllocations active allocations already exist.
func (m *Manager) Create(clientAddr, relayAddr net.Addr, lifetime time.Duration) (*Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.allocations) >= m.maxAllocations {
		return nil, mediaerr.New(mediaerr.KindRelayServer, "relay.Manager.Create", "maximum allocations reached")
	}

	if lifetime <= 0 {
		lifetime = m.defaultLifetime
	}

	now := m.clock.Now()
	alloc := &Allocation{
		ID:          uuid.New(),
		ClientAddr:  clientAddr,
		RelayAddr:   relayAddr,
		permissions: make(map[string]net.Addr),
		Lifetime:    lifetime,
		CreatedAt:   now,
		ExpiresAt:   now.Add(lifetime),
	}

	m.allocations[alloc.ID] = alloc
	m.log.WithField("allocation_id", alloc.ID).Info("allocation created")
	return alloc, nil
}

// Get returns the allocation with id, or KindRelayAllocationNotFound.
func (m *Manager) Get(id uuid.UUID) (*Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	alloc, ok := m.allocations[id]
	if !ok {
		return nil, mediaerr.New(mediaerr.KindRelayAllocationNotFound, "relay.Manager.Get", "allocation not found")
	}
	return alloc, nil
}

// Refresh extends an allocation's lifetime from now. A zero lifetime
// deletes the allocation immediately (RFC 5766 §7.2's "refresh with
// lifetime 0 deletes" behavior, adopted per the engine's open-question
// decision).
func (m *Manager) Refresh(id uuid.UUID, lifetime time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	alloc, ok := m.allocations[id]
	if !ok {
		return mediaerr.New(mediaerr.KindRelayAllocationNotFound, "relay.Manager.Refresh", "allocation not found")
	}

	if lifetime <= 0 {
		delete(m.allocations, id)
		m.log.WithField("allocation_id", id).Info("allocation deleted via zero-lifetime refresh")
		return nil
	}

	now := m.clock.Now()
	alloc.Lifetime = lifetime
	alloc.ExpiresAt = now.Add(lifetime)
	return nil
}

// Permit grants peer permission to send through id's allocation.
func (m *Manager) Permit(id uuid.UUID, peer net.Addr) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	alloc, ok := m.allocations[id]
	if !ok {
		return mediaerr.New(mediaerr.KindRelayAllocationNotFound, "relay.Manager.Permit", "allocation not found")
	}
	alloc.permissions[peer.String()] = peer
	return nil
}

// Revoke removes peer's permission from id's allocation.
func (m *Manager) Revoke(id uuid.UUID, peer net.Addr) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	alloc, ok := m.allocations[id]
	if !ok {
		return mediaerr.New(mediaerr.KindRelayAllocationNotFound, "relay.Manager.Revoke", "allocation not found")
	}
	delete(alloc.permissions, peer.String())
	return nil
}

// IsPermitted reports whether peer is permitted on id's allocation.
func (m *Manager) IsPermitted(id uuid.UUID, peer net.Addr) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	alloc, ok := m.allocations[id]
	if !ok {
		return false, mediaerr.New(mediaerr.KindRelayAllocationNotFound, "relay.Manager.IsPermitted", "allocation not found")
	}
	return alloc.IsPermitted(peer), nil
}

// RecordRelayed adds n to id's bytes-relayed counter. Supplements the
// original allocation manager, which tracked bandwidth_limit/bytes_relayed
// fields but never updated them. Only the counter is updated here; the
// allocation's BandwidthCap is not checked against it.
func (m *Manager) RecordRelayed(id uuid.UUID, n uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	alloc, ok := m.allocations[id]
	if !ok {
		return mediaerr.New(mediaerr.KindRelayAllocationNotFound, "relay.Manager.RecordRelayed", "allocation not found")
	}
	alloc.BytesRelayed += n
	return nil
}

// Delete removes id's allocation unconditionally.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allocations[id]; !ok {
		return mediaerr.New(mediaerr.KindRelayAllocationNotFound, "relay.Manager.Delete", "allocation not found")
	}
	delete(m.allocations, id)
	return nil
}

// SweepExpired removes every allocation whose ExpiresAt has passed,
// returning the count removed.
func (m *Manager) SweepExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	removed := 0
	for id, alloc := range m.allocations {
		if alloc.IsExpired(now) {
			delete(m.allocations, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.WithFields(logrus.Fields{"removed": removed}).Info("swept expired allocations")
	}
	return removed
}

// ActiveAllocations returns every non-expired allocation.
func (m *Manager) ActiveAllocations() []*Allocation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.clock.Now()
	out := make([]*Allocation, 0, len(m.allocations))
	for _, alloc := range m.allocations {
		if !alloc.IsExpired(now) {
			out = append(out, alloc)
		}
	}
	return out
}

// Count returns the number of tracked allocations, expired or not.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.allocations)
}
