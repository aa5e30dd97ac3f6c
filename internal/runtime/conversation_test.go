package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
)

// generatorFunc adapts a function to ports.QuestionGenerator for tests.
type generatorFunc func(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error)

func (f generatorFunc) GenerateFollowUp(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
	return f(ctx, conv, block)
}

func dynamicBlock(maxQuestions int) *domain.Block {
	return &domain.Block{
		ID:      "chat",
		Type:    domain.BlockDynamic,
		Subtype: domain.SubtypeConversation,
		Title:   "Tell us more",
		Settings: domain.BlockSettings{
			StarterPrompt: "What was the hardest part?",
			MaxQuestions:  maxQuestions,
		},
	}
}

func newMachine(gen generatorFunc) *conversationMachine {
	m := &conversationMachine{logger: logging.NewNop()}
	if gen != nil {
		m.generator = gen
	}
	return m
}

func staticQuestion(q string) generatorFunc {
	return func(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
		return domain.FollowUp{Question: q}, nil
	}
}

func TestAdvance_StarterAnswer(t *testing.T) {
	block := dynamicBlock(5)
	m := newMachine(staticQuestion("Why?"))
	conv := domain.NewConversation(block.StarterPrompt())

	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{
		Answer:          "It was hard to debug",
		IsFirstQuestion: true,
	})
	require.NoError(t, err)

	next := adv.conv
	require.Len(t, next.Entries, 1)
	assert.True(t, next.Entries[0].IsStarter)
	assert.Equal(t, block.StarterPrompt(), next.Entries[0].Question)
	assert.Equal(t, "It was hard to debug", next.Entries[0].Answer)
	assert.Equal(t, domain.ConversationAwaitingFollowup, next.Status)
	assert.Equal(t, "Why?", next.NextQuestion)
	assert.Equal(t, 1, next.ActiveQuestionIndex)

	// Input conversation is never mutated.
	assert.Empty(t, conv.Entries)
}

func TestAdvance_ForwardProgress(t *testing.T) {
	block := dynamicBlock(5)
	m := newMachine(staticQuestion("And then?"))
	conv := domain.NewConversation(block.StarterPrompt())

	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "first", IsFirstQuestion: true})
	require.NoError(t, err)

	adv, err = m.Advance(context.Background(), adv.conv, block, ConversationEvent{
		Answer:              "second",
		ActiveQuestionIndex: 1,
	})
	require.NoError(t, err)

	next := adv.conv
	require.Len(t, next.Entries, 2)
	assert.Equal(t, "And then?", next.Entries[1].Question)
	assert.Equal(t, "second", next.Entries[1].Answer)
	assert.False(t, next.Entries[1].IsStarter)
}

func TestAdvance_RetroactiveEditTruncates(t *testing.T) {
	block := dynamicBlock(10)
	questions := []string{"Q2", "Q3", "Q4"}
	calls := 0
	m := newMachine(func(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
		q := questions[calls%len(questions)]
		calls++
		return domain.FollowUp{Question: q}, nil
	})

	conv := domain.NewConversation(block.StarterPrompt())
	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "a1", IsFirstQuestion: true})
	require.NoError(t, err)
	adv, err = m.Advance(context.Background(), adv.conv, block, ConversationEvent{Answer: "a2", ActiveQuestionIndex: 1})
	require.NoError(t, err)
	adv, err = m.Advance(context.Background(), adv.conv, block, ConversationEvent{Answer: "a3", ActiveQuestionIndex: 2})
	require.NoError(t, err)
	require.Len(t, adv.conv.Entries, 3)

	// Edit the first answer: everything generated after it is discarded.
	adv, err = m.Advance(context.Background(), adv.conv, block, ConversationEvent{Answer: "a1-edited", ActiveQuestionIndex: 0})
	require.NoError(t, err)

	next := adv.conv
	require.Len(t, next.Entries, 1)
	assert.Equal(t, "a1-edited", next.Entries[0].Answer)
	assert.Equal(t, domain.ConversationAwaitingFollowup, next.Status)
	assert.NotEmpty(t, next.NextQuestion)
}

func TestAdvance_IdempotentReplay(t *testing.T) {
	block := dynamicBlock(10)
	calls := 0
	m := newMachine(func(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
		calls++
		return domain.FollowUp{Question: "Why?"}, nil
	})

	conv := domain.NewConversation(block.StarterPrompt())
	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "same", IsFirstQuestion: true})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	firstQuestion := adv.conv.NextQuestion

	// Resubmitting the identical answer at the same index replays the cached
	// follow-up without another generation call.
	replay, err := m.Advance(context.Background(), adv.conv, block, ConversationEvent{Answer: "same", ActiveQuestionIndex: 0, IsFirstQuestion: true})
	require.NoError(t, err)
	assert.True(t, replay.replayed)
	assert.Equal(t, firstQuestion, replay.conv.NextQuestion)
	assert.Equal(t, 1, calls)

	// A different answer at the same index is a real edit, not a replay.
	edited, err := m.Advance(context.Background(), adv.conv, block, ConversationEvent{Answer: "different", ActiveQuestionIndex: 0, IsFirstQuestion: true})
	require.NoError(t, err)
	assert.False(t, edited.replayed)
	assert.Equal(t, 2, calls)
}

func TestAdvance_MaxQuestionsCap(t *testing.T) {
	block := dynamicBlock(2)
	m := newMachine(staticQuestion("More?"))

	conv := domain.NewConversation(block.StarterPrompt())
	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "a1", IsFirstQuestion: true})
	require.NoError(t, err)
	require.False(t, adv.conv.IsComplete())

	adv, err = m.Advance(context.Background(), adv.conv, block, ConversationEvent{Answer: "a2", ActiveQuestionIndex: 1})
	require.NoError(t, err)

	next := adv.conv
	assert.True(t, next.IsComplete())
	assert.Empty(t, next.NextQuestion)
	assert.Len(t, next.Entries, 2)
}

func TestAdvance_DefaultCapWhenUnset(t *testing.T) {
	block := dynamicBlock(0) // falls back to DefaultMaxQuestions
	m := newMachine(staticQuestion("More?"))

	conv := domain.NewConversation(block.StarterPrompt())
	var err error
	adv := advanceResult{conv: conv}
	for i := 0; i < domain.DefaultMaxQuestions; i++ {
		adv, err = m.Advance(context.Background(), adv.conv, block, ConversationEvent{
			Answer:              "answer",
			ActiveQuestionIndex: i,
			IsFirstQuestion:     i == 0,
		})
		require.NoError(t, err)
	}
	assert.True(t, adv.conv.IsComplete())
	assert.Len(t, adv.conv.Entries, domain.DefaultMaxQuestions)
}

func TestAdvance_NilGeneratorCompletes(t *testing.T) {
	block := dynamicBlock(5)
	m := newMachine(nil)

	conv := domain.NewConversation(block.StarterPrompt())
	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "only answer", IsFirstQuestion: true})
	require.NoError(t, err)

	assert.True(t, adv.conv.IsComplete())
	assert.False(t, adv.fallback)
	assert.Equal(t, "only answer", adv.conv.EffectiveAnswer())
}

func TestAdvance_GeneratorErrorFallsBack(t *testing.T) {
	block := dynamicBlock(5)
	m := newMachine(func(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
		return domain.FollowUp{}, errors.New("upstream unavailable")
	})

	conv := domain.NewConversation(block.StarterPrompt())
	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "a1", IsFirstQuestion: true})
	require.NoError(t, err)

	// The respondent is never blocked behind a failed generation.
	assert.True(t, adv.conv.IsComplete())
	assert.True(t, adv.fallback)
	assert.Len(t, adv.conv.Entries, 1)
}

func TestAdvance_GeneratorDoneCompletes(t *testing.T) {
	tests := []struct {
		name     string
		followUp domain.FollowUp
	}{
		{"Explicit Done", domain.FollowUp{Done: true}},
		{"Empty Question", domain.FollowUp{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := dynamicBlock(5)
			m := newMachine(func(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
				return tt.followUp, nil
			})

			conv := domain.NewConversation(block.StarterPrompt())
			adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "a1", IsFirstQuestion: true})
			require.NoError(t, err)
			assert.True(t, adv.conv.IsComplete())
			assert.False(t, adv.fallback)
		})
	}
}

func TestAdvance_GenerationTimeout(t *testing.T) {
	block := dynamicBlock(5)
	m := newMachine(func(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
		<-ctx.Done()
		return domain.FollowUp{}, ctx.Err()
	})
	m.timeout = 10 * time.Millisecond

	conv := domain.NewConversation(block.StarterPrompt())
	start := time.Now()
	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "a1", IsFirstQuestion: true})
	require.NoError(t, err)

	assert.True(t, adv.conv.IsComplete())
	assert.True(t, adv.fallback)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAdvance_OutOfRangeIndexAppends(t *testing.T) {
	block := dynamicBlock(5)
	m := newMachine(staticQuestion("Why?"))

	conv := domain.NewConversation(block.StarterPrompt())
	adv, err := m.Advance(context.Background(), conv, block, ConversationEvent{Answer: "a1", IsFirstQuestion: true})
	require.NoError(t, err)

	// A wildly out-of-range index is clamped to append.
	adv, err = m.Advance(context.Background(), adv.conv, block, ConversationEvent{Answer: "a2", ActiveQuestionIndex: 99})
	require.NoError(t, err)
	assert.Len(t, adv.conv.Entries, 2)
}
