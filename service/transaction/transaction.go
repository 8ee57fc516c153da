package transaction

import (
	"bytes"
	"encoding/hex"
	"sort"

	"github.com/vmihailenco/msgpack/v4"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/crypto"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/log"
)

var logger = log.WithFields(log.Fields{log.FieldKeyModule: "tx"})

// RawData is the signed part of a transaction.
type RawData struct {
	_msgpack struct{} `msgpack:",asArray"`

	RefBlockBytes common.HexBytes `json:"ref_block_bytes"`
	RefBlockHash  common.HexBytes `json:"ref_block_hash"`
	Expiration    int64           `json:"expiration"`
	Timestamp     int64           `json:"timestamp"`
	Contracts     []Contract      `json:"contract"`
	Data          common.HexBytes `json:"data,omitempty"`
}

type Transaction struct {
	_msgpack struct{} `msgpack:",asArray"`

	RawData    RawData           `json:"raw_data"`
	Signatures []common.HexBytes `json:"signature"`
}

// New returns an unsigned transaction carrying the given parameters.
func New(params ...Parameter) (*Transaction, error) {
	tx := new(Transaction)
	for _, p := range params {
		c, err := NewContract(p)
		if err != nil {
			return nil, err
		}
		tx.RawData.Contracts = append(tx.RawData.Contracts, c)
	}
	return tx, nil
}

// Parse decodes the wire form of a transaction.
func Parse(b []byte) (*Transaction, error) {
	if len(b) == 0 {
		return nil, errors.MalformedBytesError.New("empty transaction bytes")
	}
	tx := new(Transaction)
	if err := msgpack.Unmarshal(b, tx); err != nil {
		return nil, errors.MalformedBytesError.Wrap(err, "decode transaction")
	}
	return tx, nil
}

// RawBytes returns the wire form of RawData, the input of the signing hash.
func (tx *Transaction) RawBytes() ([]byte, error) {
	bs, err := msgpack.Marshal(&tx.RawData)
	if err != nil {
		return nil, errors.MalformedBytesError.Wrap(err, "encode raw data")
	}
	return bs, nil
}

// Bytes returns the wire form of the whole transaction.
func (tx *Transaction) Bytes() ([]byte, error) {
	bs, err := msgpack.Marshal(tx)
	if err != nil {
		return nil, errors.MalformedBytesError.Wrap(err, "encode transaction")
	}
	return bs, nil
}

// Hash returns sha256 of RawBytes.
func (tx *Transaction) Hash() ([]byte, error) {
	raw, err := tx.RawBytes()
	if err != nil {
		return nil, err
	}
	return crypto.SHA256Sum(raw), nil
}

// ID returns the transaction id, the same digest that gets signed.
func ID(tx *Transaction) ([]byte, error) {
	return tx.Hash()
}

// IDString is ID in hex, or empty when the transaction can't be encoded.
func (tx *Transaction) IDString() string {
	id, err := tx.Hash()
	if err != nil {
		return ""
	}
	return hex.EncodeToString(id)
}

// Validate checks that tx has at least one contract and that its wire form
// decodes back to the same bytes. Signatures are not checked.
func Validate(tx *Transaction) error {
	if tx == nil || len(tx.RawData.Contracts) == 0 {
		return errors.ErrEmptyContractSet
	}
	bs, err := tx.Bytes()
	if err != nil {
		return err
	}
	_, err = ValidateBytes(bs)
	return err
}

// ValidateBytes parses b and applies the checks of Validate.
func ValidateBytes(b []byte) (*Transaction, error) {
	tx, err := Parse(b)
	if err != nil {
		return nil, err
	}
	if len(tx.RawData.Contracts) == 0 {
		return nil, errors.ErrEmptyContractSet
	}
	again, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(again, b) {
		return nil, errors.MalformedBytesError.Errorf(
			"transaction bytes don't round trip (%d != %d)", len(again), len(b))
	}
	return tx, nil
}

// VerifySignatures checks that every signature of tx was made by pub.
func VerifySignatures(tx *Transaction, pub *crypto.PublicKey) error {
	if len(tx.Signatures) == 0 {
		return errors.IllegalArgumentError.New("transaction has no signature")
	}
	hash, err := tx.Hash()
	if err != nil {
		return err
	}
	for i, bs := range tx.Signatures {
		sig, err := crypto.ParseSignature(bs)
		if err != nil {
			return errors.IllegalArgumentError.Wrapf(err, "signature[%d]", i)
		}
		if !sig.Verify(hash, pub) {
			return errors.IllegalArgumentError.Errorf("signature[%d] doesn't match", i)
		}
	}
	return nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
