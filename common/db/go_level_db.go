package db

import (
	"path/filepath"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/tronwallet/walletgo/common/errors"
)

const GoLevelDBBackend BackendType = "goleveldb"

func init() {
	registerBackend(GoLevelDBBackend, func(dir, name string) (Database, error) {
		return OpenGoLevelDB(filepath.Join(dir, name))
	})
}

// GoLevelDB is a Database kept in a leveldb directory. Every write is
// synced, since a lost wallet record cannot be rebuilt.
type GoLevelDB struct {
	lock sync.Mutex
	ldb  *leveldb.DB
}

var syncWrite = &opt.WriteOptions{Sync: true}

func OpenGoLevelDB(path string) (*GoLevelDB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.CriticalIOError.Wrapf(err, "open leveldb %s", path)
	}
	return &GoLevelDB{ldb: ldb}, nil
}

func (db *GoLevelDB) GetBucket(id BucketID) (Bucket, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.ldb == nil {
		return nil, errors.InvalidStateError.New("database closed")
	}
	return &levelBucket{id: id, ldb: db.ldb}, nil
}

func (db *GoLevelDB) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.ldb == nil {
		return nil
	}
	err := db.ldb.Close()
	db.ldb = nil
	return err
}

type levelBucket struct {
	id  BucketID
	ldb *leveldb.DB
}

func (b *levelBucket) Get(key []byte) ([]byte, error) {
	value, err := b.ldb.Get(prefixed(b.id, key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return value, err
}

func (b *levelBucket) Has(key []byte) (bool, error) {
	return b.ldb.Has(prefixed(b.id, key), nil)
}

func (b *levelBucket) Set(key []byte, value []byte) error {
	return b.ldb.Put(prefixed(b.id, key), value, syncWrite)
}

func (b *levelBucket) Delete(key []byte) error {
	return b.ldb.Delete(prefixed(b.id, key), syncWrite)
}
