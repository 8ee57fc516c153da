package wallet

import (
	"encoding/hex"
	"strings"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/crypto"
	"github.com/tronwallet/walletgo/common/errors"
)

const PrivateKeyHexLen = crypto.PrivateKeyLen * 2

// KeyPair holds a secp256k1 key and the address derived from it. A pair
// without a private key is watch-only and can't sign.
type KeyPair struct {
	skey *crypto.PrivateKey
	pkey *crypto.PublicKey
	addr *common.Address
}

func New(net *common.Network) *KeyPair {
	sk, _ := crypto.GenerateKeyPair()
	return NewFromPrivateKey(sk, net)
}

func NewFromPrivateKey(sk *crypto.PrivateKey, net *common.Network) *KeyPair {
	pk := sk.PublicKey()
	return &KeyPair{
		skey: sk,
		pkey: pk,
		addr: common.NewAddressFromPublicKey(net, pk),
	}
}

// NewFromPublicKey returns a watch-only pair for an encoded public key.
func NewFromPublicKey(pub []byte, net *common.Network) (*KeyPair, error) {
	pk, err := crypto.ParsePublicKey(pub)
	if err != nil {
		return nil, errors.IllegalArgumentError.Wrap(err, "invalid public key")
	}
	return &KeyPair{
		pkey: pk,
		addr: common.NewAddressFromPublicKey(net, pk),
	}, nil
}

// ParsePrivateKeyHex imports a key written as 64 hex characters.
func ParsePrivateKeyHex(s string, net *common.Network) (*KeyPair, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != PrivateKeyHexLen {
		return nil, errors.IllegalArgumentError.Errorf(
			"private key must be %d hex characters, got %d", PrivateKeyHexLen, len(s))
	}
	bs, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.IllegalArgumentError.Wrap(err, "private key is not hex")
	}
	defer clear(bs)
	sk, err := crypto.ParsePrivateKey(bs)
	if err != nil {
		return nil, errors.IllegalArgumentError.Wrap(err, "invalid private key")
	}
	return NewFromPrivateKey(sk, net), nil
}

func (kp *KeyPair) HasPrivateKey() bool {
	return kp.skey != nil
}

func (kp *KeyPair) PrivateKey() *crypto.PrivateKey {
	return kp.skey
}

func (kp *KeyPair) PublicKey() *crypto.PublicKey {
	return kp.pkey
}

// PublicKeyBytes returns the 65-byte uncompressed public key.
func (kp *KeyPair) PublicKeyBytes() []byte {
	return kp.pkey.SerializeUncompressed()
}

func (kp *KeyPair) Address() *common.Address {
	return kp.addr
}

// Sign returns the 65-byte [R|S|V] signature of a 32-byte digest.
func (kp *KeyPair) Sign(hash []byte) ([]byte, error) {
	if kp.skey == nil {
		return nil, errors.ErrNoPrivateKey
	}
	sig, err := crypto.NewSignature(hash, kp.skey)
	if err != nil {
		return nil, errors.IllegalArgumentError.Wrap(err, "sign")
	}
	return sig.SerializeRSV()
}

// PublicOnly returns a watch-only copy.
func (kp *KeyPair) PublicOnly() *KeyPair {
	return &KeyPair{pkey: kp.pkey, addr: kp.addr}
}

// Zero wipes the private scalar and drops it from the pair.
func (kp *KeyPair) Zero() {
	if kp == nil || kp.skey == nil {
		return
	}
	kp.skey.Zero()
	kp.skey = nil
}
