package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/flowform/engine/pkg/domain"
)

type form struct {
	blocks      []domain.Block
	connections map[string][]domain.Connection // keyed by source block ID
}

// FormProvider implements ports.FormProvider in memory. Useful for tests and
// for embedding the engine with a programmatically built form.
type FormProvider struct {
	forms map[string]*form
	mu    sync.RWMutex
}

// NewFormProvider creates an empty in-memory form registry.
func NewFormProvider() *FormProvider {
	return &FormProvider{forms: make(map[string]*form)}
}

// AddForm registers a form's block graph. Blocks are stored sorted by order
// index; connections are grouped by source.
func (p *FormProvider) AddForm(formID string, blocks []domain.Block, connections []domain.Connection) {
	sorted := make([]domain.Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	bySource := make(map[string][]domain.Connection)
	for _, conn := range connections {
		bySource[conn.SourceID] = append(bySource[conn.SourceID], conn)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.forms[formID] = &form{blocks: sorted, connections: bySource}
}

// Blocks returns the form's blocks ordered by order index.
func (p *FormProvider) Blocks(ctx context.Context, formID string) ([]domain.Block, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	f, ok := p.forms[formID]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	out := make([]domain.Block, len(f.blocks))
	copy(out, f.blocks)
	return out, nil
}

// OutgoingConnections returns the connections whose source is blockID.
func (p *FormProvider) OutgoingConnections(ctx context.Context, formID, blockID string) ([]domain.Connection, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	f, ok := p.forms[formID]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	conns := f.connections[blockID]
	out := make([]domain.Connection, len(conns))
	copy(out, conns)
	return out, nil
}
