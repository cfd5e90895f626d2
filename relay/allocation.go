// Package relay implements the TURN-style allocation manager (spec §4.6,
// referenced in the component table as the Allocation Manager), grounded
// on media-relay's allocation.rs and adapted to the teacher's
// sync.RWMutex-guarded-map, logrus texture (transport/relay.go).
package relay

import (
	"net"
	"time"

	"github.com/google/uuid"
)

// Allocation is one TURN-style relay allocation (spec §3).
type Allocation struct {
	ID         uuid.UUID
	ClientAddr net.Addr
	RelayAddr  net.Addr

	permissions map[string]net.Addr

	Lifetime     time.Duration
	CreatedAt    time.Time
	ExpiresAt    time.Time
	BandwidthCap uint64 // bytes/s, 0 = unlimited
	BytesRelayed uint64
}

// IsExpired reports whether a, judged against now, has expired.
func (a *Allocation) IsExpired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// IsPermitted reports whether peer has an active permission on a.
func (a *Allocation) IsPermitted(peer net.Addr) bool {
	_, ok := a.permissions[peer.String()]
	return ok
}

// Permissions returns a's current permission set as a slice, in no
// particular order.
func (a *Allocation) Permissions() []net.Addr {
	out := make([]net.Addr, 0, len(a.permissions))
	for _, addr := range a.permissions {
		out = append(out, addr)
	}
	return out
}
