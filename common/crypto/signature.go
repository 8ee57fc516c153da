package crypto

import (
	"encoding/hex"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// SignatureLenRawWithV is the length of [R|S|V].
	SignatureLenRawWithV = 65
	// SignatureLenRaw is the length of [R|S].
	SignatureLenRaw = 64
	// HashLen is the length of a signed digest.
	HashLen = 32
)

// compactMagic is added to the recovery id in the compact form used by
// the secp256k1 package. Some signers also put it on the wire.
const compactMagic = 27

// Signature is an ECDSA signature over secp256k1. The recovery id V is
// present for signatures made by NewSignature or parsed from 65 bytes, and
// is required to recover the public key.
type Signature struct {
	rs   []byte
	v    byte
	hasV bool
}

func NewSignature(hash []byte, privKey *PrivateKey) (*Signature, error) {
	if len(hash) == 0 || len(hash) > HashLen || privKey == nil || privKey.real == nil {
		return nil, errors.New("invalid arguments")
	}
	compact := ecdsa.SignCompact(privKey.real, hash, false)
	return &Signature{
		rs:   compact[1:],
		v:    compact[0] - compactMagic,
		hasV: true,
	}, nil
}

func normalizeV(v byte) (byte, error) {
	if v >= compactMagic {
		v -= compactMagic
	}
	if v > 1 {
		return 0, errors.New("invalid recovery id")
	}
	return v, nil
}

// ParseSignature parses [R|S] or [R|S|V]. V may be 0, 1, 27 or 28.
func ParseSignature(sig []byte) (*Signature, error) {
	switch len(sig) {
	case 0:
		return nil, errors.New("signature bytes are empty")
	case SignatureLenRaw:
		return &Signature{rs: append([]byte(nil), sig...)}, nil
	case SignatureLenRawWithV:
		v, err := normalizeV(sig[SignatureLenRaw])
		if err != nil {
			return nil, err
		}
		return &Signature{
			rs:   append([]byte(nil), sig[:SignatureLenRaw]...),
			v:    v,
			hasV: true,
		}, nil
	default:
		return nil, errors.New("wrong raw signature format")
	}
}

// ParseSignatureVRS parses [V|R|S].
func ParseSignatureVRS(sig []byte) (*Signature, error) {
	if len(sig) != SignatureLenRawWithV {
		return nil, errors.New("wrong raw signature format")
	}
	rsv := make([]byte, SignatureLenRawWithV)
	copy(rsv, sig[1:])
	rsv[SignatureLenRaw] = sig[0]
	return ParseSignature(rsv)
}

func (sig *Signature) HasV() bool {
	return sig.hasV && len(sig.rs) == SignatureLenRaw
}

func (sig *Signature) SerializeRS() ([]byte, error) {
	if len(sig.rs) != SignatureLenRaw {
		return nil, errors.New("not a valid signature")
	}
	return append([]byte(nil), sig.rs...), nil
}

// SerializeRSV returns [R|S|V] with V of 0 or 1, the form carried by
// transactions.
func (sig *Signature) SerializeRSV() ([]byte, error) {
	if !sig.HasV() {
		return nil, errors.New("no V value")
	}
	return append(append(make([]byte, 0, SignatureLenRawWithV), sig.rs...), sig.v), nil
}

func (sig *Signature) SerializeVRS() ([]byte, error) {
	if !sig.HasV() {
		return nil, errors.New("no V value")
	}
	return append([]byte{sig.v}, sig.rs...), nil
}

func (sig *Signature) RecoverPublicKey(hash []byte) (*PublicKey, error) {
	if !sig.HasV() {
		return nil, errors.New("signature has no V value")
	}
	if len(hash) == 0 || len(hash) > HashLen {
		return nil, errors.New("message hash is illegal")
	}
	compact := append([]byte{sig.v + compactMagic}, sig.rs...)
	pk, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, err
	}
	return &PublicKey{real: pk}, nil
}

// Verify reports whether sig is a signature of hash by pubKey. V is not
// used.
func (sig *Signature) Verify(hash []byte, pubKey *PublicKey) bool {
	if len(hash) == 0 || len(hash) > HashLen || pubKey == nil || len(sig.rs) != SignatureLenRaw {
		return false
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig.rs[:32]) || s.SetByteSlice(sig.rs[32:]) {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(hash, pubKey.real)
}

func (sig *Signature) String() string {
	if sig == nil || len(sig.rs) == 0 {
		return "[empty]"
	}
	if !sig.HasV() {
		return "0x" + hex.EncodeToString(sig.rs) + "[no V]"
	}
	return "0x" + hex.EncodeToString(sig.rs) + hex.EncodeToString([]byte{sig.v})
}
