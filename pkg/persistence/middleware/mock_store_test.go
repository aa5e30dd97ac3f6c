package middleware_test

import (
	"context"

	"github.com/flowform/engine/pkg/domain"
	"github.com/flowform/engine/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
type MockStore struct {
	data map[string]*domain.ResponseState
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.ResponseState),
	}
}

func (s *MockStore) Save(ctx context.Context, responseID string, state *domain.ResponseState) error {
	s.data[responseID] = state
	return nil
}

func (s *MockStore) Load(ctx context.Context, responseID string) (*domain.ResponseState, error) {
	state, ok := s.data[responseID]
	if !ok {
		return nil, domain.ErrResponseNotFound
	}
	return state, nil
}

func (s *MockStore) Delete(ctx context.Context, responseID string) error {
	delete(s.data, responseID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.ResponseStore = (*MockStore)(nil)
