package transaction

import (
	"time"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/log"
	"github.com/tronwallet/walletgo/common/wallet"
)

const DefaultExpiration = 60 * time.Second

// Signer stamps and signs transactions with the time of its Clock.
type Signer struct {
	Clock      common.Clock
	Expiration time.Duration
}

func NewSigner(clock common.Clock) *Signer {
	if clock == nil {
		clock = common.SystemClock{}
	}
	return &Signer{
		Clock:      clock,
		Expiration: DefaultExpiration,
	}
}

// StampTimestamp sets the creation time of tx to now, in milliseconds. An
// unset expiration becomes now plus the signer's expiration. A clock that
// reports the zero time is a broken environment and panics.
func (s *Signer) StampTimestamp(tx *Transaction) {
	now := s.Clock.Now()
	if now.IsZero() {
		log.Panicf("clock unavailable, can't stamp transaction")
	}
	ts := now.UnixMilli()
	tx.RawData.Timestamp = ts
	if tx.RawData.Expiration == 0 {
		exp := s.Expiration
		if exp <= 0 {
			exp = DefaultExpiration
		}
		tx.RawData.Expiration = ts + exp.Milliseconds()
	}
}

// Sign appends the signature of kp over sha256(RawBytes) to tx.
func (s *Signer) Sign(tx *Transaction, kp *wallet.KeyPair) error {
	if kp == nil || !kp.HasPrivateKey() {
		logger.Warn("can't sign, there is no private key")
		return errors.ErrNoPrivateKey
	}
	if len(tx.RawData.Contracts) == 0 {
		return errors.ErrEmptyContractSet
	}
	hash, err := tx.Hash()
	if err != nil {
		return err
	}
	sig, err := kp.Sign(hash)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// StampAndSign is StampTimestamp followed by Sign.
func (s *Signer) StampAndSign(tx *Transaction, kp *wallet.KeyPair) error {
	if kp == nil || !kp.HasPrivateKey() {
		logger.Warn("can't sign, there is no private key")
		return errors.ErrNoPrivateKey
	}
	s.StampTimestamp(tx)
	return s.Sign(tx, kp)
}
