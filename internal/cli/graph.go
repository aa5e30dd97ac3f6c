package cli

import (
	"context"
	"fmt"

	"github.com/flowform/engine/internal/presentation/graph"
	"github.com/flowform/engine/pkg/adapters/file"
	"github.com/flowform/engine/pkg/domain"
)

// Graph loads a form definition and prints its Mermaid flowchart.
func Graph(formPath string) error {
	forms := file.NewProvider()
	formID, err := forms.Load(formPath)
	if err != nil {
		return fmt.Errorf("error loading form: %w", err)
	}

	ctx := context.Background()
	blocks, err := forms.Blocks(ctx, formID)
	if err != nil {
		return err
	}

	conns := make(map[string][]domain.Connection, len(blocks))
	for _, b := range blocks {
		out, err := forms.OutgoingConnections(ctx, formID, b.ID)
		if err != nil {
			return err
		}
		if len(out) > 0 {
			conns[b.ID] = out
		}
	}

	fmt.Println(graph.GenerateMermaid(blocks, conns, nil))
	return nil
}
