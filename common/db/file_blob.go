package db

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tronwallet/walletgo/common/errors"
)

const FileBlobBackend = "file"

const (
	blobFileMode = 0600
	blobDirMode  = 0700
)

// FileBlobStore keeps each blob in its own file under a directory.
// Writes go to a temporary file first and are renamed into place, so a
// reader never observes a partially written blob.
type FileBlobStore struct {
	dir string
}

func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, blobDirMode); err != nil {
		return nil, errors.CriticalIOError.Wrapf(err, "create %s", dir)
	}
	return &FileBlobStore{dir: dir}, nil
}

func (s *FileBlobStore) pathOf(id string) (string, error) {
	if id == "" || id == "." || id == ".." ||
		strings.ContainsAny(id, `/\`) {
		return "", errors.IllegalArgumentError.Errorf("invalid blob id %q", id)
	}
	return filepath.Join(s.dir, id), nil
}

func (s *FileBlobStore) Load(id string) ([]byte, error) {
	p, err := s.pathOf(id)
	if err != nil {
		return nil, err
	}
	bs, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.CriticalIOError.Wrapf(err, "read %s", p)
	}
	return bs, nil
}

func (s *FileBlobStore) Save(id string, data []byte) error {
	p, err := s.pathOf(id)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(s.dir, "."+id+".*")
	if err != nil {
		return errors.CriticalIOError.Wrapf(err, "create temp for %s", p)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := f.Chmod(blobFileMode); err != nil {
		f.Close()
		return errors.CriticalIOError.Wrapf(err, "chmod %s", tmp)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.CriticalIOError.Wrapf(err, "write %s", tmp)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.CriticalIOError.Wrapf(err, "sync %s", tmp)
	}
	if err := f.Close(); err != nil {
		return errors.CriticalIOError.Wrapf(err, "close %s", tmp)
	}
	if err := os.Rename(tmp, p); err != nil {
		return errors.CriticalIOError.Wrapf(err, "rename to %s", p)
	}
	return nil
}
