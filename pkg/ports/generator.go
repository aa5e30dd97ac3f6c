package ports

import (
	"context"

	"github.com/flowform/engine/pkg/domain"
)

// QuestionGenerator produces the next follow-up question of a dynamic-block
// conversation, or signals that the conversation is complete.
//
// Implementations are expected to be LLM-backed and must honor context
// cancellation: the engine calls GenerateFollowUp under a bounded timeout and
// falls back to completing the conversation on error.
type QuestionGenerator interface {
	GenerateFollowUp(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error)
}
