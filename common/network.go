package common

import (
	"encoding/hex"
	"strings"

	"github.com/tronwallet/walletgo/common/errors"
)

// Network carries the per-network address parameters. Values are passed
// to the codec explicitly instead of being read from global state.
type Network struct {
	Name string
	// Prefix is the first byte of every 21-byte address.
	Prefix byte
	// TextLen is the length of the Base58Check form of an address.
	TextLen int
}

var (
	MainNet = &Network{Name: "mainnet", Prefix: 0x41, TextLen: 34}
	TestNet = &Network{Name: "testnet", Prefix: 0xa0, TextLen: 35}
)

func NetworkByName(name string) (*Network, error) {
	switch strings.ToLower(name) {
	case "", MainNet.Name:
		return MainNet, nil
	case TestNet.Name:
		return TestNet, nil
	default:
		return nil, errors.InvalidNetworkError.Errorf("unknown network %q", name)
	}
}

// Or returns net, or MainNet when net is nil.
func (net *Network) Or() *Network {
	if net == nil {
		return MainNet
	}
	return net
}

func (net *Network) String() string {
	return net.Or().Name
}

// ValidateAddress checks length and prefix of a raw address.
func (net *Network) ValidateAddress(addr []byte) error {
	n := net.Or()
	if len(addr) != AddressBytes {
		return errors.InvalidLengthError.Errorf(
			"address length %d, expected %d", len(addr), AddressBytes)
	}
	if addr[0] != n.Prefix {
		return errors.InvalidPrefixError.Errorf(
			"address prefix 0x%02x, expected 0x%02x", addr[0], n.Prefix)
	}
	return nil
}

// DecodeAddress parses the Base58Check text form of an address.
func (net *Network) DecodeAddress(text string) (*Address, error) {
	n := net.Or()
	if len(text) != n.TextLen {
		return nil, errors.InvalidLengthError.Errorf(
			"address text length %d, expected %d", len(text), n.TextLen)
	}
	raw, err := DecodeCheck(text)
	if err != nil {
		return nil, err
	}
	if err := n.ValidateAddress(raw); err != nil {
		return nil, err
	}
	var a Address
	copy(a[:], raw)
	return &a, nil
}

// DecodeHexAddress parses the hex form of an address, with or without
// a leading "0x".
func (net *Network) DecodeHexAddress(text string) (*Address, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return nil, errors.InvalidEncodingError.Wrapf(err, "invalid hex address %q", text)
	}
	if err := net.Or().ValidateAddress(raw); err != nil {
		return nil, err
	}
	var a Address
	copy(a[:], raw)
	return &a, nil
}

// AddressFromPublicKey derives the address of an uncompressed public key.
func (net *Network) AddressFromPublicKey(pub []byte) (*Address, error) {
	n := net.Or()
	if len(pub) != 65 || pub[0] != 0x04 {
		return nil, errors.IllegalArgumentError.Errorf(
			"public key must be 65 bytes uncompressed, got %d", len(pub))
	}
	return NewAddressFromID(n.Prefix, addressIDOf(pub)), nil
}
