package dsl

import (
	"fmt"

	"github.com/flowform/engine/pkg/adapters/memory"
	"github.com/flowform/engine/pkg/domain"
)

// Builder manages the form construction. Blocks keep their declaration order,
// which doubles as the sequential fallback order.
type Builder struct {
	formID string
	blocks []*BlockBuilder
	byID   map[string]*BlockBuilder
}

// New creates a new form builder.
func New(formID string) *Builder {
	return &Builder{
		formID: formID,
		byID:   make(map[string]*BlockBuilder),
	}
}

// Static declares a fixed-question block. If the ID already exists, it returns
// the existing builder.
func (b *Builder) Static(id string) *BlockBuilder {
	return b.add(id, domain.BlockStatic)
}

// Dynamic declares an AI follow-up conversation block.
func (b *Builder) Dynamic(id string) *BlockBuilder {
	return b.add(id, domain.BlockDynamic)
}

func (b *Builder) add(id, blockType string) *BlockBuilder {
	if bb, ok := b.byID[id]; ok {
		return bb
	}
	bb := &BlockBuilder{
		block: domain.Block{
			ID:         id,
			Type:       blockType,
			OrderIndex: len(b.blocks),
		},
		builder: b,
	}
	b.blocks = append(b.blocks, bb)
	b.byID[id] = bb
	return bb
}

// Build compiles the form into an in-memory FormProvider.
func (b *Builder) Build() (*memory.FormProvider, error) {
	if len(b.blocks) == 0 {
		return nil, fmt.Errorf("form %s has no blocks", b.formID)
	}

	blocks := make([]domain.Block, 0, len(b.blocks))
	var conns []domain.Connection
	for _, bb := range b.blocks {
		blocks = append(blocks, bb.block)
		if bb.conn != nil {
			conns = append(conns, *bb.conn)
		}
	}

	provider := memory.NewFormProvider()
	provider.AddForm(b.formID, blocks, conns)
	return provider, nil
}
