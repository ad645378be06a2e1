package repository

import (
	"context"
	"sync"
)

// MemoryOptionStore is a mutex-guarded in-memory OptionStore. It backs the
// service when no DATABASE_URL is configured and serves as the test double
// for every store-dependent package.
type MemoryOptionStore struct {
	mu      sync.RWMutex
	options map[string]string
}

func NewMemoryOptionStore() *MemoryOptionStore {
	return &MemoryOptionStore{options: make(map[string]string)}
}

func (s *MemoryOptionStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.options[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryOptionStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[key] = value
	return nil
}

func (s *MemoryOptionStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.options[key]
	delete(s.options, key)
	return ok, nil
}
