// Package filekv implements storage.Backend as a directory holding one file
// per key. Writes are atomic (temp file + rename) and each read or write holds
// a lock file, so no reader sees a half-replaced value. Keeping a whole
// load-modify-write session to one process is up to the caller.
package filekv

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"ltask/internal/storage"
)

const (
	// fileExt is appended to every key to form its filename.
	fileExt = ".json"

	// lockName is the lock file inside the store directory.
	lockName = ".lock"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store is a directory-backed key-value store.
type Store struct {
	dir string
	flk *flock.Flock
}

// Open creates dir if needed and returns a Store rooted at it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create store directory %s", dir)
	}
	return &Store{
		dir: dir,
		flk: flock.New(filepath.Join(dir, lockName)),
	}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Get implements storage.Backend.
func (s *Store) Get(key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := s.flk.RLock(); err != nil {
		return "", errors.Wrap(err, "acquire read lock")
	}
	defer func() { _ = s.flk.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", storage.ErrNotFound
		}
		return "", errors.Wrapf(err, "read %s", key)
	}
	return string(data), nil
}

// Put implements storage.Backend.
func (s *Store) Put(key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := s.flk.Lock(); err != nil {
		return errors.Wrap(err, "acquire write lock")
	}
	defer func() { _ = s.flk.Unlock() }()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", key)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "write %s", key)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "sync %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", key)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "replace %s", key)
	}
	return nil
}

// Close implements storage.Backend.
func (s *Store) Close() error {
	return s.flk.Close()
}

func (s *Store) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", errors.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}
