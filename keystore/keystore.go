// Package keystore provides the opaque key-value store SRTP sessions use
// to hold master keys and salts (spec §3 Key ID, §4.4), grounded on
// armoricore-keys' key_store.rs interface and adapted to the teacher's
// stdlib-crypto, mutex-guarded style (crypto/keystore.go).
package keystore

import (
	"sync"

	"github.com/coldwire/mediacore/mediaerr"
)

// Store is the minimal interface the SRTP key manager needs from a
// backing key-value store: set, get, delete, and existence check over
// opaque byte blobs addressed by a Key ID string (spec §3).
type Store interface {
	StoreKey(keyID string, value []byte) error
	GetKey(keyID string) ([]byte, error)
	DeleteKey(keyID string) error
	KeyExists(keyID string) bool
}

// MemoryStore is an in-memory Store implementation, sufficient for a
// single engine process and for tests; it never persists to disk.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory key store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) StoreKey(keyID string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := append([]byte(nil), value...)
	s.data[keyID] = cp
	return nil
}

func (s *MemoryStore) GetKey(keyID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[keyID]
	if !ok {
		return nil, mediaerr.New(mediaerr.KindKeyNotFound, "keystore.MemoryStore.GetKey", "key "+keyID+" not found")
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) DeleteKey(keyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, keyID)
	return nil
}

func (s *MemoryStore) KeyExists(keyID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[keyID]
	return ok
}
