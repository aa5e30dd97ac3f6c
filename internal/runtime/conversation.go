package runtime

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/flowform/engine/pkg/domain"
	"github.com/flowform/engine/pkg/ports"
)

// ConversationEvent is one respondent submission into a dynamic block.
type ConversationEvent struct {
	// Answer is the respondent's answer text.
	Answer string

	// ActiveQuestionIndex is the entry index being answered. Equal to the
	// conversation length when answering the newest open question; smaller
	// values indicate a retroactive edit.
	ActiveQuestionIndex int

	// IsFirstQuestion marks the starter-prompt answer.
	IsFirstQuestion bool
}

// advanceResult carries the new conversation state plus submission metadata.
type advanceResult struct {
	conv *domain.Conversation

	// fallback is set when the generator failed and the conversation was
	// force-completed with the respondent-facing fallback message.
	fallback bool

	// replayed is set when an identical resubmission was answered from the
	// cached follow-up without calling the generator.
	replayed bool

	genDuration time.Duration
}

// conversationMachine owns the lifecycle of dynamic-block sub-conversations.
// Advance is a pure state+event transition apart from the generator call: it
// never mutates its input conversation.
type conversationMachine struct {
	generator ports.QuestionGenerator
	timeout   time.Duration
	logger    *slog.Logger
}

// Advance applies one answer submission to the conversation.
func (m *conversationMachine) Advance(ctx context.Context, conv *domain.Conversation, block *domain.Block, ev ConversationEvent) (advanceResult, error) {
	next := conv.Clone()
	if next == nil {
		next = domain.NewConversation(block.StarterPrompt())
	}
	now := time.Now().UTC()

	idx := ev.ActiveQuestionIndex
	if idx < 0 || idx > len(next.Entries) {
		idx = len(next.Entries)
	}

	// Idempotent replay: the identical answer at the same index with an
	// unchanged upstream answer must not regenerate a different follow-up.
	key := followUpKey(block.ID, idx, ev.Answer)
	if key == next.LastKey && !next.IsComplete() && next.NextQuestion != "" && len(next.Entries) > idx {
		return advanceResult{conv: next, replayed: true}, nil
	}

	switch {
	case ev.IsFirstQuestion || len(next.Entries) == 0:
		// Starter answer opens the conversation.
		next.Entries = []domain.QAPair{{
			Question:  block.StarterPrompt(),
			Answer:    ev.Answer,
			Timestamp: now,
			IsStarter: true,
		}}
	case idx < len(next.Entries):
		// Retroactive edit: every later QA pair was generated conditioned on
		// the answer being changed, so it must be discarded before regeneration.
		next.Entries = next.Entries[:idx+1]
		next.Entries[idx].Answer = ev.Answer
		next.Entries[idx].Timestamp = now
	default:
		// Forward progress: answering the newest open question.
		question := next.NextQuestion
		if question == "" {
			question = block.StarterPrompt()
		}
		next.Entries = append(next.Entries, domain.QAPair{
			Question:  question,
			Answer:    ev.Answer,
			Timestamp: now,
		})
	}

	// Hard cap forces completion regardless of the generator's signal.
	if len(next.Entries) >= block.MaxQuestions() {
		m.complete(next)
		return advanceResult{conv: next}, nil
	}

	if m.generator == nil {
		m.complete(next)
		return advanceResult{conv: next}, nil
	}

	followUp, duration, err := m.generate(ctx, next, block)
	if err != nil {
		// The respondent must never be stuck behind a failed or timed-out
		// generation call: force-complete and surface the fallback message.
		m.logger.Warn("follow-up generation failed, completing conversation",
			"block_id", block.ID,
			"entries", len(next.Entries),
			"err", err)
		m.complete(next)
		return advanceResult{conv: next, fallback: true, genDuration: duration}, nil
	}

	if followUp.Done || followUp.Question == "" {
		m.complete(next)
		return advanceResult{conv: next, genDuration: duration}, nil
	}

	next.Status = domain.ConversationAwaitingFollowup
	next.NextQuestion = followUp.Question
	next.ActiveQuestionIndex = len(next.Entries)
	next.LastKey = followUpKey(block.ID, len(next.Entries)-1, ev.Answer)
	return advanceResult{conv: next, genDuration: duration}, nil
}

func (m *conversationMachine) complete(conv *domain.Conversation) {
	conv.Status = domain.ConversationComplete
	conv.NextQuestion = ""
	conv.ActiveQuestionIndex = len(conv.Entries)
	conv.LastKey = ""
}

func (m *conversationMachine) generate(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, time.Duration, error) {
	timeout := m.timeout
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	genCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	followUp, err := m.generator.GenerateFollowUp(genCtx, conv, block)
	return followUp, time.Since(start), err
}

// followUpKey identifies one (block, question index, answer) submission for
// idempotent follow-up replay.
func followUpKey(blockID string, index int, answer string) string {
	h := fnv.New64a()
	h.Write([]byte(answer))
	return fmt.Sprintf("%s:%d:%x", blockID, index, h.Sum64())
}

// DefaultGenerationTimeout bounds a single question-generation call.
const DefaultGenerationTimeout = 20 * time.Second
