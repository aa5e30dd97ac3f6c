package memory

import (
	"context"
	"sync"

	"github.com/flowform/engine/pkg/domain"
)

// Generator implements ports.QuestionGenerator from a fixed script of
// follow-up questions. It backs offline demos and tests; production
// deployments use the OpenAI-compatible adapter instead.
type Generator struct {
	questions []string
	mu        sync.Mutex
	calls     int
}

// NewGenerator creates a scripted generator. Once the script is exhausted it
// signals completion.
func NewGenerator(questions ...string) *Generator {
	return &Generator{questions: questions}
}

// GenerateFollowUp returns the next scripted question, or Done past the end.
func (g *Generator) GenerateFollowUp(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
	if err := ctx.Err(); err != nil {
		return domain.FollowUp{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Index by answered entries so a regenerated follow-up after a
	// retroactive edit replays the same script position.
	idx := len(conv.Entries) - 1
	if idx < 0 {
		idx = 0
	}
	g.calls++
	if idx >= len(g.questions) {
		return domain.FollowUp{Done: true}, nil
	}
	return domain.FollowUp{Question: g.questions[idx]}, nil
}

// Calls reports how many generation calls were made.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
