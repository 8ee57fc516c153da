package db

import (
	"sort"

	"github.com/tronwallet/walletgo/common/errors"
)

// BucketID prefixes the keys of a Bucket inside its Database.
type BucketID string

// WalletRecord maps wallet name to its encrypted record.
const WalletRecord BucketID = "W"

// Bucket is one keyspace of a Database. Get of a missing key returns nil
// and no error.
type Bucket interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key []byte, value []byte) error
	Delete(key []byte) error
}

type Database interface {
	GetBucket(id BucketID) (Bucket, error)
	Close() error
}

type BackendType string

// opener creates the database name under dir.
type opener func(dir, name string) (Database, error)

var openers = map[BackendType]opener{}

func registerBackend(backend BackendType, open opener) {
	if _, ok := openers[backend]; ok {
		panic("duplicate database backend " + string(backend))
	}
	openers[backend] = open
}

// Backends returns the names of the registered backends in order.
func Backends() []string {
	names := make([]string, 0, len(openers))
	for backend := range openers {
		names = append(names, string(backend))
	}
	sort.Strings(names)
	return names
}

func Open(dir string, backend BackendType, name string) (Database, error) {
	open, ok := openers[backend]
	if !ok {
		return nil, errors.UnsupportedError.Errorf(
			"UnknownBackend(type=%s,supported=%v)", backend, Backends())
	}
	return open(dir, name)
}

func prefixed(id BucketID, key []byte) []byte {
	return append([]byte(id), key...)
}
