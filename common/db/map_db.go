package db

import (
	"sync"

	"github.com/tronwallet/walletgo/common/errors"
)

const MapDBBackend BackendType = "mapdb"

func init() {
	registerBackend(MapDBBackend, func(string, string) (Database, error) {
		return NewMapDB(), nil
	})
}

// NewMapDB returns an in-memory Database. Contents are lost on Close.
func NewMapDB() Database {
	return &mapDatabase{
		buckets: make(map[BucketID]*mapBucket),
	}
}

type mapDatabase struct {
	lock    sync.Mutex
	buckets map[BucketID]*mapBucket
}

func (t *mapDatabase) GetBucket(id BucketID) (Bucket, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.buckets == nil {
		return nil, errors.InvalidStateError.New("database closed")
	}
	if bk, ok := t.buckets[id]; ok {
		return bk, nil
	}
	bk := &mapBucket{
		real: make(map[string][]byte),
	}
	t.buckets[id] = bk
	return bk, nil
}

func (t *mapDatabase) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.buckets = nil
	return nil
}

type mapBucket struct {
	lock sync.RWMutex
	real map[string][]byte
}

func (t *mapBucket) Get(k []byte) ([]byte, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if v, ok := t.real[string(k)]; ok {
		return append([]byte{}, v...), nil
	}
	return nil, nil
}

func (t *mapBucket) Has(k []byte) (bool, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	_, ok := t.real[string(k)]
	return ok, nil
}

func (t *mapBucket) Set(k, v []byte) error {
	if len(k) == 0 {
		return errors.IllegalArgumentError.Errorf("Illegal Key:%x", k)
	}
	t.lock.Lock()
	defer t.lock.Unlock()

	t.real[string(k)] = append([]byte{}, v...)
	return nil
}

func (t *mapBucket) Delete(k []byte) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	delete(t.real, string(k))
	return nil
}
