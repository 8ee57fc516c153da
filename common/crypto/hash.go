package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/sha3"
)

// SHA256Sum returns the SHA-256 digest of the concatenated inputs.
func SHA256Sum(data ...[]byte) []byte {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// DoubleSHA256 returns sha256(sha256(data)).
func DoubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Keccak256 is the legacy Keccak variant used for account addresses,
// not the standardized SHA3-256.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
