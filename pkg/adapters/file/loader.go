// Package file loads form definitions from YAML files and serves them as a
// ports.FormProvider. The graph is read once at startup; builder-side
// mutation is out of the engine's scope.
package file

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/flowform/engine/internal/dto"
	"github.com/flowform/engine/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Provider implements ports.FormProvider over one or more loaded form files.
type Provider struct {
	forms map[string]*loadedForm
}

type loadedForm struct {
	title       string
	blocks      []domain.Block
	connections map[string][]domain.Connection
}

// NewProvider creates an empty provider. Use Load to add form files.
func NewProvider() *Provider {
	return &Provider{forms: make(map[string]*loadedForm)}
}

// Load reads one form definition file and registers it. It returns the
// form's ID.
func (p *Provider) Load(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read form file: %w", err)
	}

	// Decode in two steps: YAML into a loose map, then mapstructure into the
	// typed document. This keeps the file shape tolerant of extra keys the
	// builder may add.
	var loose map[string]any
	if err := yaml.Unmarshal(raw, &loose); err != nil {
		return "", fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	var doc dto.FormDocument
	if err := mapstructure.WeakDecode(loose, &doc); err != nil {
		return "", fmt.Errorf("invalid form document in %s: %w", path, err)
	}
	if doc.ID == "" {
		return "", fmt.Errorf("form file %s has no id", path)
	}

	blocks, conns, err := doc.ToDomain()
	if err != nil {
		return "", fmt.Errorf("form %s: %w", doc.ID, err)
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].OrderIndex < blocks[j].OrderIndex
	})

	bySource := make(map[string][]domain.Connection)
	for _, conn := range conns {
		bySource[conn.SourceID] = append(bySource[conn.SourceID], conn)
	}

	p.forms[doc.ID] = &loadedForm{
		title:       doc.Title,
		blocks:      blocks,
		connections: bySource,
	}
	return doc.ID, nil
}

// Title returns the display title of a loaded form.
func (p *Provider) Title(formID string) string {
	if f, ok := p.forms[formID]; ok {
		return f.title
	}
	return ""
}

// FormIDs lists the loaded forms.
func (p *Provider) FormIDs() []string {
	ids := make([]string, 0, len(p.forms))
	for id := range p.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Blocks returns the form's blocks ordered by order index.
func (p *Provider) Blocks(ctx context.Context, formID string) ([]domain.Block, error) {
	f, ok := p.forms[formID]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	out := make([]domain.Block, len(f.blocks))
	copy(out, f.blocks)
	return out, nil
}

// OutgoingConnections returns the connections whose source is blockID.
func (p *Provider) OutgoingConnections(ctx context.Context, formID, blockID string) ([]domain.Connection, error) {
	f, ok := p.forms[formID]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	conns := f.connections[blockID]
	out := make([]domain.Connection, len(conns))
	copy(out, conns)
	return out, nil
}
