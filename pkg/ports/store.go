package ports

import (
	"context"

	"github.com/flowform/engine/pkg/domain"
)

// ResponseStore defines the interface for persisting respondent state.
// All session state lives behind this port and is re-read on each submission,
// keeping the engine stateless between calls.
type ResponseStore interface {
	// Save persists the state for a given response ID.
	Save(ctx context.Context, responseID string, state *domain.ResponseState) error

	// Load retrieves the state for a given response ID.
	// Returns domain.ErrResponseNotFound if the response does not exist.
	Load(ctx context.Context, responseID string) (*domain.ResponseState, error)

	// Delete removes the state for a given response ID.
	Delete(ctx context.Context, responseID string) error

	// List returns the IDs of active responses.
	List(ctx context.Context) ([]string, error)
}
