package keystore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldwire/mediacore/mediaerr"
	"github.com/coldwire/mediacore/rtp"
	"github.com/coldwire/mediacore/srtp"
)

func TestCreateAndGetSessionKeys(t *testing.T) {
	m := NewManager(NewMemoryStore())
	sessionID := uuid.New()

	require.NoError(t, m.CreateSessionKeys(sessionID))

	masterKey, masterSalt, err := m.GetSessionKeys(sessionID)
	require.NoError(t, err)
	assert.Len(t, masterKey, srtp.MasterKeyLen)
	assert.Len(t, masterSalt, srtp.MasterSaltLen)
}

func TestGetSessionKeysMissingFails(t *testing.T) {
	m := NewManager(NewMemoryStore())
	_, _, err := m.GetSessionKeys(uuid.New())
	require.Error(t, err)
	assert.True(t, mediaerr.Is(err, mediaerr.KindKeyNotFound))
}

func TestBuildPipelineWiresSrtpSession(t *testing.T) {
	m := NewManager(NewMemoryStore())
	sessionID := uuid.New()
	require.NoError(t, m.CreateSessionKeys(sessionID))

	pipeline := srtp.NewPipeline()
	require.NoError(t, m.BuildPipeline(pipeline, sessionID, 0xCAFEBABE, 0))

	wire, err := pipeline.Protect(&rtp.Packet{
		Version:        2,
		SequenceNumber: 1,
		Timestamp:      1000,
		SSRC:           0xCAFEBABE,
		Payload:        []byte("hello"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, wire)
}

func TestDeleteSessionKeysIsIdempotent(t *testing.T) {
	m := NewManager(NewMemoryStore())
	sessionID := uuid.New()
	require.NoError(t, m.CreateSessionKeys(sessionID))
	require.NoError(t, m.DeleteSessionKeys(sessionID))
	require.NoError(t, m.DeleteSessionKeys(sessionID))

	_, _, err := m.GetSessionKeys(sessionID)
	require.Error(t, err)
}

func TestRotateSessionKeysChangesMaterial(t *testing.T) {
	m := NewManager(NewMemoryStore())
	sessionID := uuid.New()
	require.NoError(t, m.CreateSessionKeys(sessionID))

	originalKey, _, err := m.GetSessionKeys(sessionID)
	require.NoError(t, err)

	require.NoError(t, m.RotateSessionKeys(sessionID))
	rotatedKey, _, err := m.GetSessionKeys(sessionID)
	require.NoError(t, err)

	assert.NotEqual(t, originalKey, rotatedKey)
}
