package memstore

import (
	"context"
	"sync"
)

// CartStorage is an in-memory implementation of domain.CartStorage.
// Records are lost on restart.
type CartStorage struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewCartStorage creates an empty in-memory cart storage
func NewCartStorage() *CartStorage {
	return &CartStorage{records: make(map[string][]byte)}
}

// Get returns a copy of the record under key
func (s *CartStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set replaces the record under key
func (s *CartStorage) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}
