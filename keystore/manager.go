package keystore

import (
	"crypto/rand"

	"github.com/google/uuid"

	"github.com/coldwire/mediacore/mediaerr"
	"github.com/coldwire/mediacore/srtp"
)

// masterKeyIDPrefix and masterSaltIDPrefix are the Key ID namespaces SRTP
// session material is stored under (spec §3 Key ID: "srtp:master_key:<session>").
const (
	masterKeyIDPrefix  = "srtp:master_key:"
	masterSaltIDPrefix = "srtp:master_salt:"
)

func masterKeyID(sessionID uuid.UUID) string  { return masterKeyIDPrefix + sessionID.String() }
func masterSaltID(sessionID uuid.UUID) string { return masterSaltIDPrefix + sessionID.String() }

// Manager is the façade SRTP consumers use to provision, retrieve, rotate,
// and tear down session key material, backed by a Store (spec §4.4, §4.5
// integration point; grounded on key_integration.rs's SrtpKeyManager).
type Manager struct {
	store Store
}

// NewManager returns a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// CreateSessionKeys generates a fresh random master key (16 bytes) and
// master salt (14 bytes) for sessionID and stores them under their Key IDs.
func (m *Manager) CreateSessionKeys(sessionID uuid.UUID) error {
	masterKey := make([]byte, srtp.MasterKeyLen)
	if _, err := rand.Read(masterKey); err != nil {
		return mediaerr.Wrap(mediaerr.KindSrtpKeyDerivation, "keystore.Manager.CreateSessionKeys", "failed to generate master key", err)
	}
	masterSalt := make([]byte, srtp.MasterSaltLen)
	if _, err := rand.Read(masterSalt); err != nil {
		return mediaerr.Wrap(mediaerr.KindSrtpKeyDerivation, "keystore.Manager.CreateSessionKeys", "failed to generate master salt", err)
	}

	if err := m.store.StoreKey(masterKeyID(sessionID), masterKey); err != nil {
		return err
	}
	return m.store.StoreKey(masterSaltID(sessionID), masterSalt)
}

// GetSessionKeys retrieves the stored master key and salt for sessionID,
// validating their lengths (spec §3).
func (m *Manager) GetSessionKeys(sessionID uuid.UUID) (masterKey, masterSalt []byte, err error) {
	masterKey, err = m.store.GetKey(masterKeyID(sessionID))
	if err != nil {
		return nil, nil, err
	}
	masterSalt, err = m.store.GetKey(masterSaltID(sessionID))
	if err != nil {
		return nil, nil, err
	}

	if len(masterKey) != srtp.MasterKeyLen {
		return nil, nil, mediaerr.New(mediaerr.KindKeyFormat, "keystore.Manager.GetSessionKeys", "stored master key has wrong length")
	}
	if len(masterSalt) != srtp.MasterSaltLen {
		return nil, nil, mediaerr.New(mediaerr.KindKeyFormat, "keystore.Manager.GetSessionKeys", "stored master salt has wrong length")
	}
	return masterKey, masterSalt, nil
}

// BuildPipeline retrieves sessionID's stored keys and provisions them into
// pipeline under ssrc, starting the rollover counter at initialROC.
func (m *Manager) BuildPipeline(pipeline *srtp.Pipeline, sessionID uuid.UUID, ssrc uint32, initialROC uint32) error {
	masterKey, masterSalt, err := m.GetSessionKeys(sessionID)
	if err != nil {
		return err
	}
	return pipeline.AddSession(ssrc, masterKey, masterSalt, initialROC)
}

// DeleteSessionKeys removes sessionID's master key and salt from the
// store. Deleting a key that does not exist is not an error, matching the
// teardown-is-idempotent behavior of key_integration.rs's delete_session_keys.
func (m *Manager) DeleteSessionKeys(sessionID uuid.UUID) error {
	_ = m.store.DeleteKey(masterKeyID(sessionID))
	_ = m.store.DeleteKey(masterSaltID(sessionID))
	return nil
}

// RotateSessionKeys replaces sessionID's master key and salt with freshly
// generated material, discarding the previous values. Supplements the
// original key manager, which only ever creates or deletes session keys;
// this engine instead lets a long-lived session re-key without tearing
// down and recreating its identity.
func (m *Manager) RotateSessionKeys(sessionID uuid.UUID) error {
	if err := m.DeleteSessionKeys(sessionID); err != nil {
		return err
	}
	return m.CreateSessionKeys(sessionID)
}
