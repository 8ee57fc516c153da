package wallet

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronwallet/walletgo/common/errors"
)

func TestDeriveKey_Salts(t *testing.T) {
	zero := make([]byte, SaltLen)
	ones := bytes.Repeat([]byte{0x01}, SaltLen)

	k0, err := DeriveKey("abcdef", zero, PurposeEncryption)
	require.NoError(t, err)
	k1, err := DeriveKey("abcdef", ones, PurposeEncryption)
	require.NoError(t, err)

	assert.Len(t, k0, KeyLen)
	assert.Len(t, k1, KeyLen)
	assert.NotEqual(t, k0, k1)

	first := sha256.Sum256(append([]byte("abcdef"), zero...))
	second := sha256.Sum256(first[:])
	assert.Equal(t, second[:KeyLen], k0)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x5a}, SaltLen)
	a, err := DeriveKey("correct horse", salt, PurposeVerifier)
	require.NoError(t, err)
	b, err := DeriveKey("correct horse", salt, PurposeVerifier)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := DeriveKey("correct horse", salt, PurposeEncryption)
	require.NoError(t, err)
	assert.Equal(t, a, c, "purpose is carried by the salt, not the function")

	d, err := DeriveKey("correct horsf", salt, PurposeVerifier)
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestDeriveKey_Policy(t *testing.T) {
	salt := make([]byte, SaltLen)
	for _, tc := range []struct {
		name string
		pw   string
		ok   bool
	}{
		{"Empty", "", false},
		{"Five", "abcde", false},
		{"Six", "abcdef", true},
		{"MultiByte", "비밀번호보안", true},
		{"MultiByteShort", "비밀번호", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveKey(tc.pw, salt, PurposeEncryption)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.WeakPasswordError.Equals(err))
			}
		})
	}

	strict := KDF{MinLength: 10}
	_, err := strict.DeriveKey("abcdefgh", salt, PurposeVerifier)
	assert.True(t, errors.WeakPasswordError.Equals(err))

	lax := KDF{MinLength: 2}
	_, err = lax.DeriveKey("abc", salt, PurposeVerifier)
	assert.True(t, errors.WeakPasswordError.Equals(err))
}

func TestDeriveKey_SaltLength(t *testing.T) {
	for _, n := range []int{0, 15, 17} {
		_, err := DeriveKey("abcdef", make([]byte, n), PurposeEncryption)
		assert.True(t, errors.IllegalArgumentError.Equals(err), "salt=%d", n)
	}
}
