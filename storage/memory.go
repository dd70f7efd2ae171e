package storage

import (
	"context"
	"sync"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// MemoryStore is an in-process KeyedRecordStore backed by a map. It is the
// default backing for tests and embedded use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Exists reports whether a value is stored at key.
func (s *MemoryStore) Exists(ctx context.Context, key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[string(key)]
	return ok, nil
}

// Get retrieves the value stored at key.
func (s *MemoryStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[string(key)]
	if !ok {
		return nil, interfaces.ErrRecordNotFound
	}

	// Copy so callers cannot alias stored bytes.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put stores value at key, creating or overwriting.
func (s *MemoryStore) Put(ctx context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.records[string(key)] = stored
	return nil
}

// Length returns the byte length of the value stored at key, or 0 if absent.
func (s *MemoryStore) Length(ctx context.Context, key []byte) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[string(key)]
	if !ok {
		return 0, nil
	}
	return uint64(len(value)), nil
}

// Len returns the number of stored records. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
