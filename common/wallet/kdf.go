package wallet

import (
	"crypto/sha256"
	"unicode/utf8"

	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/log"
)

const (
	MinPasswordLength = 6
	KeyLen            = 16
	SaltLen           = 16
)

type Purpose int

const (
	PurposeEncryption Purpose = iota
	PurposeVerifier
)

func (p Purpose) String() string {
	switch p {
	case PurposeEncryption:
		return "encryption"
	case PurposeVerifier:
		return "verifier"
	default:
		return "unknown"
	}
}

// KDF turns a password and a salt into a 16-byte key. MinLength raises the
// password length policy above MinPasswordLength; lower values are ignored.
type KDF struct {
	MinLength int
}

var DefaultKDF = KDF{MinLength: MinPasswordLength}

func (k KDF) minLength() int {
	if k.MinLength < MinPasswordLength {
		return MinPasswordLength
	}
	return k.MinLength
}

// CheckPassword applies the length policy, counted in characters.
func (k KDF) CheckPassword(password string) error {
	if n := utf8.RuneCountInString(password); n < k.minLength() {
		log.Debugf("password rejected length=%d min=%d", n, k.minLength())
		return errors.WeakPasswordError.Errorf(
			"password needs at least %d characters", k.minLength())
	}
	return nil
}

// DeriveKey returns sha256(sha256(password || salt))[:16]. Both purposes
// use the same function and differ only by the salt the caller passes.
func (k KDF) DeriveKey(password string, salt []byte, purpose Purpose) ([]byte, error) {
	if err := k.CheckPassword(password); err != nil {
		return nil, err
	}
	if len(salt) != SaltLen {
		return nil, errors.IllegalArgumentError.Errorf(
			"%s salt must be %d bytes, got %d", purpose, SaltLen, len(salt))
	}
	h := sha256.New()
	pw := []byte(password)
	h.Write(pw)
	h.Write(salt)
	clear(pw)
	first := h.Sum(nil)
	second := sha256.Sum256(first)
	clear(first)

	key := make([]byte, KeyLen)
	copy(key, second[:KeyLen])
	clear(second[:])
	return key, nil
}

func DeriveKey(password string, salt []byte, purpose Purpose) ([]byte, error) {
	return DefaultKDF.DeriveKey(password, salt, purpose)
}
