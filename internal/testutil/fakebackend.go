// Package testutil provides testing utilities.
package testutil

import (
	"errors"
	"sync"

	"ltask/internal/ids"
	"ltask/internal/storage"
	"ltask/internal/tasks"
)

// ErrInjected is the default error returned by injected failures.
var ErrInjected = errors.New("injected failure")

// FakeBackend is an in-memory storage.Backend with per-key error injection
// and direct access to the raw stored strings.
type FakeBackend struct {
	mu   sync.RWMutex
	data map[string]string

	// Error injection for testing
	GetErr   map[string]error // key -> error
	PutErr   map[string]error // key -> error
	CloseErr error

	// Puts counts successful writes per key.
	Puts map[string]int
}

// NewFakeBackend creates an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		data:   make(map[string]string),
		GetErr: make(map[string]error),
		PutErr: make(map[string]error),
		Puts:   make(map[string]int),
	}
}

// SetRaw stores value under key as-is, bypassing JSON encoding.
func (f *FakeBackend) SetRaw(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// Raw returns the stored string for key.
func (f *FakeBackend) Raw(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	return v, ok
}

// Get implements storage.Backend.
func (f *FakeBackend) Get(key string) (string, error) {
	if err := f.GetErr[key]; err != nil {
		return "", err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

// Put implements storage.Backend.
func (f *FakeBackend) Put(key, value string) error {
	if err := f.PutErr[key]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.Puts[key]++
	return nil
}

// Close implements storage.Backend.
func (f *FakeBackend) Close() error {
	return f.CloseErr
}

// SeqIDs is a deterministic tasks.IDSource counting up from its start value.
type SeqIDs struct {
	next int64
}

// NewSeqIDs returns a SeqIDs whose first ID is start.
func NewSeqIDs(start int64) *SeqIDs {
	return &SeqIDs{next: start}
}

// Next implements tasks.IDSource.
func (s *SeqIDs) Next() int64 {
	id := s.next
	s.next++
	return id
}

// NewManager returns a Manager over backend with sequential IDs from 1.
func NewManager(backend storage.Backend) *tasks.Manager {
	return tasks.New(storage.NewAdapter(backend, nil), NewSeqIDs(1))
}

// NewSnowflakeManager returns a Manager over backend with real snowflake IDs.
func NewSnowflakeManager(backend storage.Backend) *tasks.Manager {
	return tasks.New(storage.NewAdapter(backend, nil), ids.MustNew(0))
}
