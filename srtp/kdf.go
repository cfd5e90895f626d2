// Key derivation (spec §4.4): the SRTP KDF turns a 16-byte master key and
// 14-byte master salt into per-purpose session keys using AES in counter
// mode as a keystream generator, following RFC 3711 Appendix B.3 with a
// zero key-derivation rate (the common case, and the one the teacher's
// own early SRTP prototype — cptpcrd-srtp/srtp.go — implements).
package srtp

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/coldwire/mediacore/mediaerr"
)

const (
	labelEncryption    byte = 0x00
	labelAuthentication byte = 0x01
	labelSalt          byte = 0x02

	MasterKeyLen  = 16
	MasterSaltLen = 14

	SessionEncryptionKeyLen    = 16
	SessionAuthenticationKeyLen = 20
	SessionSaltLen             = 14
)

// deriveX builds the AES-CM input block: the master salt, zero-padded to
// 16 bytes, XORed with the label at the byte position RFC 3711 places it
// (index/kdr contributes nothing when kdr is 0).
func deriveX(masterSalt []byte, label byte) [16]byte {
	var x [16]byte
	copy(x[:MasterSaltLen], masterSalt)
	x[7] ^= label
	return x
}

// keystream runs AES-CTR over an all-zero buffer of length bytes using
// masterKey and the given starting block as both key and counter,
// producing a deterministic derived-key keystream.
func keystream(masterKey []byte, x [16]byte, length int) ([]byte, error) {
	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.KindSrtpKeyDerivation, "srtp.keystream", "AES cipher init failed", err)
	}
	stream := cipher.NewCTR(block, x[:])
	out := make([]byte, length)
	stream.XORKeyStream(out, out)
	return out, nil
}

// SessionKeys holds the three keys/salt derived from one master key/salt
// pair for a single SRTP session (spec §3).
type SessionKeys struct {
	EncryptionKey     []byte
	AuthenticationKey []byte
	Salt              []byte
}

// DeriveSessionKeys derives the session encryption key, authentication
// key, and salt from a master key and salt (spec §4.4). Inputs must be
// exactly MasterKeyLen and MasterSaltLen bytes.
func DeriveSessionKeys(masterKey, masterSalt []byte) (*SessionKeys, error) {
	if len(masterKey) != MasterKeyLen {
		return nil, mediaerr.New(mediaerr.KindSrtpKeyDerivation, "srtp.DeriveSessionKeys", "master key must be 16 bytes")
	}
	if len(masterSalt) != MasterSaltLen {
		return nil, mediaerr.New(mediaerr.KindSrtpKeyDerivation, "srtp.DeriveSessionKeys", "master salt must be 14 bytes")
	}

	encKey, err := keystream(masterKey, deriveX(masterSalt, labelEncryption), SessionEncryptionKeyLen)
	if err != nil {
		return nil, err
	}
	authKey, err := keystream(masterKey, deriveX(masterSalt, labelAuthentication), SessionAuthenticationKeyLen)
	if err != nil {
		return nil, err
	}
	saltMaterial, err := keystream(masterKey, deriveX(masterSalt, labelSalt), 16)
	if err != nil {
		return nil, err
	}

	return &SessionKeys{
		EncryptionKey:     encKey,
		AuthenticationKey: authKey,
		Salt:              saltMaterial[:SessionSaltLen],
	}, nil
}
