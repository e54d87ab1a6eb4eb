package library

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrBlobNotFound is returned by BlobStore.Get when the key was never written.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrUnknownBackend is returned by OpenBlobStore for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// BlobStore is a synchronous key/value store holding whole serialized values.
type BlobStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Backend names accepted by OpenBlobStore.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// OpenBlobStore opens the named backend at path. path is a database file for
// sqlite, a directory for badger, and ignored for memory.
func OpenBlobStore(backend, path string) (BlobStore, error) {
	switch backend {
	case BackendSQLite:
		s, err := NewSQLiteBlobStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBadger:
		s, err := NewBadgerBlobStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryBlobStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// MemoryBlobStore keeps blobs in a map. Used by tests and the memory backend.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (m *MemoryBlobStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBlobStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBlobStore) Close() error { return nil }
