package common

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/tronwallet/walletgo/common/errors"
)

// HexBytes is a byte slice written in JSON as a 0x prefixed hex string.
// Input without the prefix is accepted. nil is written as null.
type HexBytes []byte

func (hs HexBytes) MarshalJSON() ([]byte, error) {
	if hs == nil {
		return []byte("null"), nil
	}
	return json.Marshal(hs.String())
}

func (hs *HexBytes) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*hs = nil
		return nil
	}
	bin, err := hex.DecodeString(strings.TrimPrefix(*s, "0x"))
	if err != nil {
		return errors.InvalidEncodingError.Wrapf(err, "invalid hex %q", *s)
	}
	*hs = bin
	return nil
}

func (hs HexBytes) Bytes() []byte {
	return hs
}

func (hs HexBytes) String() string {
	if hs == nil {
		return "null"
	}
	return "0x" + hex.EncodeToString(hs)
}
