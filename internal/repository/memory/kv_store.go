package memory

import (
	"context"
	"strings"
	"sync"

	"eventmaster/internal/domain"
)

type kvStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKVStore returns a domain.KVStore held in process memory. Contents are lost on exit.
func NewKVStore() domain.KVStore {
	return &kvStore{data: make(map[string]string)}
}

func (s *kvStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *kvStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	return nil
}

func (s *kvStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *kvStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
