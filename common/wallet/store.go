package wallet

import (
	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/db"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/log"
)

// Store keeps one wallet record in a BlobStore under a fixed identifier.
// Every Save replaces the whole record. Callers serialize access.
type Store struct {
	KDF KDF

	blobs db.BlobStore
	id    string
	net   *common.Network
	log   log.Logger
}

func NewStore(blobs db.BlobStore, id string, net *common.Network) *Store {
	return &Store{
		KDF:   DefaultKDF,
		blobs: blobs,
		id:    id,
		net:   net.Or(),
		log: log.WithFields(log.Fields{
			log.FieldKeyModule:  "wallet",
			log.FieldKeyNetwork: net.Or().Name,
		}),
	}
}

func (s *Store) Network() *common.Network {
	return s.net
}

func (s *Store) load() (Record, error) {
	bs, err := s.blobs.Load(s.id)
	if err != nil {
		return nil, err
	}
	if bs == nil {
		return nil, errors.NotFoundError.Errorf("no wallet %q", s.id)
	}
	rec, err := checkLength(bs)
	if err != nil {
		s.log.Warnf("wallet %q is not a wallet record: %v", s.id, err)
		return nil, err
	}
	return rec, nil
}

// Exists reports whether a well-formed record is stored.
func (s *Store) Exists() (bool, error) {
	_, err := s.load()
	switch {
	case err == nil:
		return true, nil
	case errors.NotFoundError.Equals(err), errors.CorruptRecordError.Equals(err):
		return false, nil
	default:
		return false, err
	}
}

func (s *Store) Save(kp *KeyPair, password string) error {
	rec, err := s.KDF.Create(kp, password)
	if err != nil {
		return err
	}
	if err := s.blobs.Save(s.id, rec); err != nil {
		return err
	}
	s.log.WithFields(log.Fields{log.FieldKeyWallet: kp.Address().String()}).
		Infof("wallet %q saved", s.id)
	return nil
}

func (s *Store) Load(password string) (*KeyPair, error) {
	rec, err := s.load()
	if err != nil {
		return nil, err
	}
	kp, err := s.KDF.Recover(rec, password, s.net)
	if err != nil {
		s.log.Debugf("wallet %q recover failed: %v", s.id, err)
		return nil, err
	}
	return kp, nil
}

func (s *Store) LoadPublicOnly() (*KeyPair, error) {
	rec, err := s.load()
	if err != nil {
		return nil, err
	}
	return RecoverPublicOnly(rec, s.net)
}

// CheckPassword returns nil when password opens the stored wallet.
func (s *Store) CheckPassword(password string) error {
	rec, err := s.load()
	if err != nil {
		return err
	}
	return s.KDF.VerifyPassword(rec, password)
}

// ChangePassword re-encrypts the stored key under newPassword with fresh
// salts.
func (s *Store) ChangePassword(oldPassword, newPassword string) error {
	if err := s.KDF.CheckPassword(newPassword); err != nil {
		return err
	}
	kp, err := s.Load(oldPassword)
	if err != nil {
		return err
	}
	defer kp.Zero()
	return s.Save(kp, newPassword)
}
