package report

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store used in tests and local development.
type Memory[E any] struct {
	mu      sync.Mutex
	entries map[string]*E
	key     func(*E) string
}

// NewMemory builds a Memory store; key extracts the fingerprint from an
// entity.
func NewMemory[E any](key func(*E) string) *Memory[E] {
	return &Memory[E]{
		entries: make(map[string]*E),
		key:     key,
	}
}

func (s *Memory[E]) Get(_ context.Context, hash string) (*E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[hash], nil
}

func (s *Memory[E]) Put(_ context.Context, entity *E) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash := s.key(entity)
	if _, exists := s.entries[hash]; exists {
		return fmt.Errorf("report %s already stored", hash)
	}
	s.entries[hash] = entity
	return nil
}
