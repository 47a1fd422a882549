// Package storage is the persistent store adapter: JSON values kept under
// string keys in a durable key-value backend.
//
// Backends are deliberately dumb. They store opaque strings and report
// ErrNotFound for missing keys. All decoding, and the rule that a broken
// value reads as "absent", live in Adapter.
package storage

import (
	"encoding/json"
	"errors"
	"reflect"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend is a durable string key-value store.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) (string, error)

	// Put stores value under key, replacing any previous value.
	Put(key, value string) error

	// Close releases the backend's resources.
	Close() error
}

// Adapter reads and writes JSON values through a Backend.
type Adapter struct {
	backend Backend
	log     logrus.FieldLogger
}

// NewAdapter wraps backend. A nil logger uses the logrus standard logger.
func NewAdapter(backend Backend, log logrus.FieldLogger) *Adapter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Adapter{backend: backend, log: log.WithField("module", "storage")}
}

// Load decodes the value stored under key into dst and reports whether it
// did. A missing key, a backend failure, malformed JSON and a JSON null all
// read as absent; dst is left untouched in that case.
func (a *Adapter) Load(key string, dst any) bool {
	raw, err := a.backend.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.log.WithError(err).WithField("key", key).Warn("read failed, using default")
		}
		return false
	}
	if raw == "" || raw == "null" {
		return false
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		a.log.WithField("key", key).Errorf("load into non-pointer %T", dst)
		return false
	}

	// Decode into a scratch value first so a half-decoded payload never
	// leaks into dst.
	scratch := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(raw), scratch.Interface()); err != nil {
		a.log.WithError(err).WithField("key", key).Warn("malformed value, using default")
		return false
	}
	rv.Elem().Set(scratch.Elem())
	return true
}

// Save encodes v as JSON and stores it under key.
func (a *Adapter) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return pkgerrors.Wrapf(err, "encode %s", key)
	}
	if err := a.backend.Put(key, string(data)); err != nil {
		return pkgerrors.Wrapf(err, "write %s", key)
	}
	return nil
}

// Close closes the underlying backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
