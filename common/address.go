package common

import (
	"encoding/hex"
	"encoding/json"

	"github.com/tronwallet/walletgo/common/crypto"
)

const (
	AddressIDBytes = 20
	AddressBytes   = AddressIDBytes + 1
)

// Address is a network prefix byte followed by the last 20 bytes of
// Keccak-256 over the public key coordinates.
type Address [AddressBytes]byte

func addressIDOf(pub []byte) []byte {
	digest := crypto.Keccak256(pub[1:])
	return digest[len(digest)-AddressIDBytes:]
}

func NewAddressFromID(prefix byte, id []byte) *Address {
	a := new(Address)
	a[0] = prefix
	copy(a[1:], id)
	return a
}

// NewAddressFromPublicKey is AddressFromPublicKey on net for a parsed key.
func NewAddressFromPublicKey(net *Network, pub *crypto.PublicKey) *Address {
	return NewAddressFromID(net.Or().Prefix, addressIDOf(pub.SerializeUncompressed()))
}

func (a *Address) Prefix() byte {
	return a[0]
}

func (a *Address) Bytes() []byte {
	return (*a)[:]
}

// ID returns the address without the prefix byte.
func (a *Address) ID() []byte {
	return (*a)[1:]
}

// String returns the Base58Check form.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	return EncodeCheck(a[:])
}

func (a *Address) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a *Address) Equal(a2 *Address) bool {
	if a == nil || a2 == nil {
		return a == a2
	}
	return *a == *a2
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts the Base58Check form on any known network.
func (a *Address) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	var lastErr error
	for _, n := range []*Network{MainNet, TestNet} {
		addr, err := n.DecodeAddress(s)
		if err == nil {
			*a = *addr
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// ParseAddress decodes text for net, returning nil when text is not a
// valid address. It is for callers that treat "no address" as a value.
func ParseAddress(net *Network, text string) *Address {
	a, err := net.DecodeAddress(text)
	if err != nil {
		return nil
	}
	return a
}
