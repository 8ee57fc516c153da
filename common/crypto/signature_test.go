package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_Uninitialized(t *testing.T) {
	var sig Signature
	_, err := sig.SerializeRS()
	assert.Error(t, err)
	_, err = sig.SerializeRSV()
	assert.Error(t, err)
	assert.False(t, sig.HasV())
	assert.Equal(t, "[empty]", sig.String())
}

func TestSignature_NewSignature(t *testing.T) {
	sk, _ := GenerateKeyPair()
	hash := SHA256Sum([]byte("raw transaction"))

	for _, tc := range []struct {
		name string
		hash []byte
		key  *PrivateKey
	}{
		{"NilHash", nil, sk},
		{"NilKey", hash, nil},
		{"LongHash", make([]byte, HashLen+1), sk},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := NewSignature(tc.hash, tc.key)
			assert.Error(t, err)
			assert.Nil(t, sig)
		})
	}

	sig, err := NewSignature(hash, sk)
	assert.NoError(t, err)
	assert.True(t, sig.HasV())
}

func TestSignature_VerifyAndRecover(t *testing.T) {
	sk, pk := GenerateKeyPair()
	hash := SHA256Sum([]byte("transfer 100 sun"))

	sig, err := NewSignature(hash, sk)
	require.NoError(t, err)
	assert.True(t, sig.Verify(hash, pk))

	other := SHA256Sum([]byte("transfer 101 sun"))
	assert.False(t, sig.Verify(other, pk))

	_, pk2 := GenerateKeyPair()
	assert.False(t, sig.Verify(hash, pk2))

	rpk, err := sig.RecoverPublicKey(hash)
	require.NoError(t, err)
	assert.True(t, rpk.Equal(pk))
}

func TestSignature_Serialize(t *testing.T) {
	sk, pk := GenerateKeyPair()
	hash := SHA256Sum([]byte("test data"))

	sig, err := NewSignature(hash, sk)
	require.NoError(t, err)

	rsv, err := sig.SerializeRSV()
	require.NoError(t, err)
	assert.Len(t, rsv, SignatureLenRawWithV)
	assert.True(t, rsv[SignatureLenRaw] == 0 || rsv[SignatureLenRaw] == 1)

	t.Run("RSVRoundTrip", func(t *testing.T) {
		sig2, err := ParseSignature(rsv)
		require.NoError(t, err)
		assert.True(t, sig2.Verify(hash, pk))
		rsv2, err := sig2.SerializeRSV()
		assert.NoError(t, err)
		assert.Equal(t, rsv, rsv2)
	})

	t.Run("RS", func(t *testing.T) {
		rs, err := sig.SerializeRS()
		assert.NoError(t, err)
		assert.Equal(t, rsv[:SignatureLenRaw], rs)

		sig2, err := ParseSignature(rs)
		require.NoError(t, err)
		assert.False(t, sig2.HasV())
		assert.True(t, sig2.Verify(hash, pk))
		_, err = sig2.RecoverPublicKey(hash)
		assert.Error(t, err)
	})

	t.Run("VRS", func(t *testing.T) {
		vrs, err := sig.SerializeVRS()
		assert.NoError(t, err)
		assert.Equal(t, rsv[:SignatureLenRaw], vrs[1:])
		assert.Equal(t, rsv[SignatureLenRaw], vrs[0])

		sig2, err := ParseSignatureVRS(vrs)
		require.NoError(t, err)
		vrs2, err := sig2.SerializeVRS()
		assert.NoError(t, err)
		assert.Equal(t, vrs, vrs2)
	})
}

func TestParseSignature_Length(t *testing.T) {
	for _, tc := range []struct {
		name  string
		size  int
		ok    bool
		withV bool
	}{
		{"Empty", 0, false, false},
		{"Short", 3, false, false},
		{"RS", SignatureLenRaw, true, false},
		{"RSV", SignatureLenRawWithV, true, true},
		{"Long", SignatureLenRawWithV + 1, false, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := ParseSignature(make([]byte, tc.size))
			if !tc.ok {
				assert.Error(t, err)
				assert.Nil(t, sig)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.withV, sig.HasV())
		})
	}

	_, err := ParseSignatureVRS(make([]byte, SignatureLenRaw))
	assert.Error(t, err)
}
