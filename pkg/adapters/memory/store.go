package memory

import (
	"context"
	"sync"

	"github.com/flowform/engine/pkg/domain"
)

// Store implements ports.ResponseStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.ResponseState
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.ResponseState),
	}
}

// Save persists the state in memory.
func (s *Store) Save(ctx context.Context, responseID string, state *domain.ResponseState) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[responseID] = copied
	return nil
}

// Load retrieves the state from memory.
func (s *Store) Load(ctx context.Context, responseID string) (*domain.ResponseState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[responseID]
	if !ok {
		return nil, domain.ErrResponseNotFound
	}

	// Copy on read so the caller can't mutate store state through the pointer
	return state.Clone(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, responseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, responseID)
	return nil
}

// List returns active responses.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	responses := make([]string, 0, len(s.data))
	for id := range s.data {
		responses = append(responses, id)
	}
	return responses, nil
}
