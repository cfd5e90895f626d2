package srtp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMasterKey() []byte {
	return bytes.Repeat([]byte{0xE1}, MasterKeyLen)
}

func testMasterSalt() []byte {
	return bytes.Repeat([]byte{0x0E}, MasterSaltLen)
}

func TestDeriveSessionKeysSizes(t *testing.T) {
	keys, err := DeriveSessionKeys(testMasterKey(), testMasterSalt())
	require.NoError(t, err)
	assert.Len(t, keys.EncryptionKey, SessionEncryptionKeyLen)
	assert.Len(t, keys.AuthenticationKey, SessionAuthenticationKeyLen)
	assert.Len(t, keys.Salt, SessionSaltLen)
}

func TestDeriveSessionKeysDeterministic(t *testing.T) {
	k1, err := DeriveSessionKeys(testMasterKey(), testMasterSalt())
	require.NoError(t, err)
	k2, err := DeriveSessionKeys(testMasterKey(), testMasterSalt())
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestDeriveSessionKeysDiffersByLabel(t *testing.T) {
	keys, err := DeriveSessionKeys(testMasterKey(), testMasterSalt())
	require.NoError(t, err)
	assert.NotEqual(t, keys.EncryptionKey, keys.AuthenticationKey[:SessionEncryptionKeyLen])
	assert.NotEqual(t, keys.EncryptionKey, keys.Salt)
}

func TestDeriveSessionKeysDiffersByInput(t *testing.T) {
	keys1, err := DeriveSessionKeys(testMasterKey(), testMasterSalt())
	require.NoError(t, err)
	altSalt := bytes.Repeat([]byte{0x0F}, MasterSaltLen)
	keys2, err := DeriveSessionKeys(testMasterKey(), altSalt)
	require.NoError(t, err)
	assert.NotEqual(t, keys1.EncryptionKey, keys2.EncryptionKey)
}

func TestDeriveSessionKeysRejectsBadLengths(t *testing.T) {
	_, err := DeriveSessionKeys(make([]byte, 10), testMasterSalt())
	require.Error(t, err)
	_, err = DeriveSessionKeys(testMasterKey(), make([]byte, 10))
	require.Error(t, err)
}
