package db

import (
	"github.com/tronwallet/walletgo/common/errors"
)

// BlobStore persists opaque values by identifier. Load of an identifier
// that was never saved returns nil and no error.
type BlobStore interface {
	Load(id string) ([]byte, error)
	Save(id string, data []byte) error
}

// BucketBlobStore keeps blobs in one bucket of a Database.
type BucketBlobStore struct {
	bk Bucket
}

func NewBucketBlobStore(dbase Database, id BucketID) (*BucketBlobStore, error) {
	bk, err := dbase.GetBucket(id)
	if err != nil {
		return nil, err
	}
	return &BucketBlobStore{bk: bk}, nil
}

func (s *BucketBlobStore) Load(id string) ([]byte, error) {
	if len(id) == 0 {
		return nil, errors.IllegalArgumentError.New("empty blob id")
	}
	return s.bk.Get([]byte(id))
}

func (s *BucketBlobStore) Save(id string, data []byte) error {
	if len(id) == 0 {
		return errors.IllegalArgumentError.New("empty blob id")
	}
	return s.bk.Set([]byte(id), data)
}

// OpenBlobStore returns a BlobStore of the given backend rooted at dir.
// "file" keeps one file per identifier; other values name a Database
// backend whose WalletRecord bucket holds the blobs. The returned closer
// releases the backend.
func OpenBlobStore(backend, dir string) (BlobStore, func() error, error) {
	if backend == "" || backend == FileBlobBackend {
		fs, err := NewFileBlobStore(dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	}
	dbase, err := Open(dir, BackendType(backend), "wallet")
	if err != nil {
		return nil, nil, err
	}
	bs, err := NewBucketBlobStore(dbase, WalletRecord)
	if err != nil {
		dbase.Close()
		return nil, nil, err
	}
	return bs, dbase.Close, nil
}
