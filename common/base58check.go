package common

import (
	"bytes"

	"github.com/btcsuite/btcutil/base58"

	"github.com/tronwallet/walletgo/common/crypto"
	"github.com/tronwallet/walletgo/common/errors"
)

const ChecksumLen = 4

func checksum(payload []byte) []byte {
	return crypto.DoubleSHA256(payload)[:ChecksumLen]
}

// EncodeCheck returns Base58(payload || sha256(sha256(payload))[:4]).
func EncodeCheck(payload []byte) string {
	buf := make([]byte, 0, len(payload)+ChecksumLen)
	buf = append(buf, payload...)
	buf = append(buf, checksum(payload)...)
	return base58.Encode(buf)
}

// DecodeCheck reverses EncodeCheck. The returned slice never includes the
// checksum.
func DecodeCheck(text string) ([]byte, error) {
	raw := base58.Decode(text)
	if len(raw) <= ChecksumLen {
		return nil, errors.InvalidEncodingError.Errorf(
			"decoded %d bytes from %q", len(raw), text)
	}
	data := raw[:len(raw)-ChecksumLen]
	if !bytes.Equal(checksum(data), raw[len(data):]) {
		return nil, errors.ChecksumMismatchError.Errorf(
			"checksum mismatch for %q", text)
	}
	return data, nil
}
