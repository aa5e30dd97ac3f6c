package ports

import (
	"context"

	"github.com/flowform/engine/pkg/domain"
)

// FormProvider defines how the engine retrieves the block graph.
// The graph is read-only during response collection; builder-side mutation
// happens behind this port and is out of the engine's scope.
type FormProvider interface {
	// Blocks returns the form's blocks ordered by order index.
	// Returns domain.ErrFormNotFound for unknown form IDs.
	Blocks(ctx context.Context, formID string) ([]domain.Block, error)

	// OutgoingConnections returns the connections whose source is blockID,
	// in stored order. An empty slice means purely sequential flow.
	OutgoingConnections(ctx context.Context, formID, blockID string) ([]domain.Connection, error)
}
