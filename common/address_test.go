package common

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronwallet/walletgo/common/crypto"
	"github.com/tronwallet/walletgo/common/errors"
)

func TestEncodeCheck_RoundTrip(t *testing.T) {
	for _, payload := range [][]byte{
		{0x00},
		{0x41, 0x01, 0x02},
		bytes.Repeat([]byte{0xa0}, 21),
		bytes.Repeat([]byte{0xff}, 64),
	} {
		text := EncodeCheck(payload)
		got, err := DecodeCheck(text)
		assert.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func TestDecodeCheck_Failures(t *testing.T) {
	text := EncodeCheck([]byte{0x41, 0x10, 0x20, 0x30})

	t.Run("FlippedDataBit", func(t *testing.T) {
		raw := base58.Decode(text)
		raw[1] ^= 0x01
		_, err := DecodeCheck(base58.Encode(raw))
		assert.True(t, errors.ChecksumMismatchError.Equals(err))
	})
	t.Run("FlippedChecksumBit", func(t *testing.T) {
		raw := base58.Decode(text)
		for i := len(raw) - 4; i < len(raw); i++ {
			for bit := 0; bit < 8; bit++ {
				bad := append([]byte(nil), raw...)
				bad[i] ^= 1 << bit
				_, err := DecodeCheck(base58.Encode(bad))
				assert.True(t, errors.ChecksumMismatchError.Equals(err),
					"byte=%d bit=%d err=%+v", i, bit, err)
			}
		}
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := DecodeCheck(base58.Encode([]byte{1, 2, 3, 4}))
		assert.True(t, errors.InvalidEncodingError.Equals(err))
	})

	t.Run("BadAlphabet", func(t *testing.T) {
		_, err := DecodeCheck("0OIl")
		assert.True(t, errors.InvalidEncodingError.Equals(err))
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := DecodeCheck("")
		assert.Error(t, err)
	})
}

func TestNetwork_KnownAddress(t *testing.T) {
	raw, _ := hex.DecodeString("41a614f803b6fd780986a42c78ec9c7f77e6ded13c")
	text := "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"

	assert.Equal(t, text, EncodeCheck(raw))

	a, err := MainNet.DecodeAddress(text)
	require.NoError(t, err)
	assert.Equal(t, raw, a.Bytes())
	assert.Equal(t, text, a.String())
	assert.Equal(t, "41a614f803b6fd780986a42c78ec9c7f77e6ded13c", a.Hex())
}

func TestNetwork_ValidateAddress(t *testing.T) {
	good := append([]byte{0x41}, make([]byte, 20)...)
	assert.NoError(t, MainNet.ValidateAddress(good))

	err := TestNet.ValidateAddress(good)
	assert.True(t, errors.InvalidPrefixError.Equals(err))

	for _, n := range []int{0, 20, 22} {
		err := MainNet.ValidateAddress(make([]byte, n))
		assert.True(t, errors.InvalidLengthError.Equals(err), "len=%d", n)
	}

	var nilNet *Network
	assert.NoError(t, nilNet.ValidateAddress(good))
}

func TestNetwork_DecodeAddress(t *testing.T) {
	_, pk := crypto.GenerateKeyPair()

	for _, n := range []*Network{MainNet, TestNet} {
		t.Run(n.Name, func(t *testing.T) {
			a, err := n.AddressFromPublicKey(pk.SerializeUncompressed())
			require.NoError(t, err)
			assert.Equal(t, n.Prefix, a.Prefix())
			assert.True(t, a.Equal(NewAddressFromPublicKey(n, pk)))

			text := a.String()
			assert.Len(t, text, n.TextLen)

			a2, err := n.DecodeAddress(text)
			require.NoError(t, err)
			assert.True(t, a.Equal(a2))
		})
	}

	t.Run("WrongTextLength", func(t *testing.T) {
		a := NewAddressFromPublicKey(MainNet, pk)
		_, err := MainNet.DecodeAddress(a.String() + "1")
		assert.True(t, errors.InvalidLengthError.Equals(err))
		_, err = MainNet.DecodeAddress("")
		assert.True(t, errors.InvalidLengthError.Equals(err))
	})

	t.Run("ValidTextWrongPrefix", func(t *testing.T) {
		payload := append([]byte{0x42}, bytes.Repeat([]byte{0x11}, 20)...)
		text := EncodeCheck(payload)
		require.Len(t, text, MainNet.TextLen)
		_, err := MainNet.DecodeAddress(text)
		assert.True(t, errors.InvalidPrefixError.Equals(err))
	})

	t.Run("ParseAddressNil", func(t *testing.T) {
		assert.Nil(t, ParseAddress(MainNet, "not-an-address"))
		a := NewAddressFromPublicKey(MainNet, pk)
		assert.True(t, a.Equal(ParseAddress(MainNet, a.String())))
	})
}

func TestAddress_JSON(t *testing.T) {
	_, pk := crypto.GenerateKeyPair()
	a := NewAddressFromPublicKey(TestNet, pk)

	bs, err := json.Marshal(a)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(bs), a.String()))

	var a2 Address
	require.NoError(t, json.Unmarshal(bs, &a2))
	assert.True(t, a.Equal(&a2))

	assert.Error(t, json.Unmarshal([]byte(`"Txyz"`), &a2))
}

func TestNetworkByName(t *testing.T) {
	n, err := NetworkByName("TestNet")
	assert.NoError(t, err)
	assert.Equal(t, TestNet, n)

	n, err = NetworkByName("")
	assert.NoError(t, err)
	assert.Equal(t, MainNet, n)

	_, err = NetworkByName("shasta2")
	assert.True(t, errors.InvalidNetworkError.Equals(err))
}

func TestClock_Monotonic(t *testing.T) {
	var zero TestClock
	assert.True(t, zero.Now().IsZero())

	cl := NewTestClock(zero.Now().AddDate(2020, 0, 0))
	before := cl.Now()
	cl.Advance(1500)
	assert.Equal(t, before.Add(1500), cl.Now())
	cl.SetTime(before)
	assert.Equal(t, before.Add(1500), cl.Now())
}
