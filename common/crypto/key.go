package crypto

import (
	"encoding/hex"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	PrivateKeyLen = 32
)

// PrivateKey is a type representing a secp256k1 private key.
type PrivateKey struct {
	real *secp256k1.PrivateKey
}

// ParsePrivateKey parses the 32-byte big-endian scalar into a PrivateKey.
// Zero and values not less than the group order are rejected.
func ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeyLen {
		return nil, errors.New("invalid private key length")
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(b); overflow {
		return nil, errors.New("private key out of range")
	}
	if s.IsZero() {
		return nil, errors.New("private key is zero")
	}
	return &PrivateKey{secp256k1.NewPrivateKey(&s)}, nil
}

// Bytes returns a copy of the 32-byte scalar.
func (key *PrivateKey) Bytes() []byte {
	return key.real.Serialize()
}

func (key *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key.real.PubKey()}
}

// Zero clears the scalar. The key is unusable afterwards.
func (key *PrivateKey) Zero() {
	if key != nil && key.real != nil {
		key.real.Zero()
	}
}

func (key *PrivateKey) String() string {
	return "0x" + hex.EncodeToString(key.Bytes())
}

const (
	PublicKeyLenCompressed   = 33
	PublicKeyLenUncompressed = 65
)

// PublicKey is a type representing a public key, which can be serialized to
// or deserialized from compressed or uncompressed formats.
type PublicKey struct {
	real *secp256k1.PublicKey
}

// ParsePublicKey parses the public key into a PublicKey instance. It supports
// uncompressed and compressed formats.
func ParsePublicKey(pubKey []byte) (*PublicKey, error) {
	switch len(pubKey) {
	case 0:
		return nil, errors.New("public key bytes are empty")
	case PublicKeyLenCompressed, PublicKeyLenUncompressed:
		pk, err := secp256k1.ParsePubKey(pubKey)
		if err != nil {
			return nil, err
		}
		return &PublicKey{pk}, nil
	default:
		return nil, errors.New("wrong format")
	}
}

// SerializeCompressed serializes the public key in a 33-byte compressed format.
func (key *PublicKey) SerializeCompressed() []byte {
	return key.real.SerializeCompressed()
}

// SerializeUncompressed serializes the public key in a 65-byte uncompressed format.
func (key *PublicKey) SerializeUncompressed() []byte {
	return key.real.SerializeUncompressed()
}

// Equal returns true if the given public key is same as this instance
// semantically
func (key *PublicKey) Equal(key2 *PublicKey) bool {
	if key == nil || key2 == nil {
		return key == key2
	}
	return key.real.IsEqual(key2.real)
}

func (key *PublicKey) String() string {
	return "0x" + hex.EncodeToString(key.SerializeCompressed())
}

// GenerateKeyPair generates a private and public key pair.
func GenerateKeyPair() (privKey *PrivateKey, pubKey *PublicKey) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		panic(err)
	}
	privKey = &PrivateKey{priv}
	pubKey = privKey.PublicKey()
	return
}
