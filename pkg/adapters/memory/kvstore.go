// Package memory provides an in-process core.KVStore, used for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/notekeep/pkg/core"
)

// Store is a map-backed core.KVStore.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites, when set, is returned by Write and Remove.
	FailWrites error
	// FailReads, when set, is returned by Read.
	FailReads error
}

var _ core.KVStore = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Read implements core.KVStore.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailReads != nil {
		return nil, s.FailReads
	}
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Write implements core.KVStore.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

// Remove implements core.KVStore.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	delete(s.data, key)
	return nil
}

// Keys returns the stored keys.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{"keys": len(s.data)}
}
