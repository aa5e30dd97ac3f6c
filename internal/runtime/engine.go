package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
	"github.com/flowform/engine/pkg/ports"
	"github.com/flowform/engine/pkg/schema"
	"github.com/flowform/engine/pkg/session"
)

// Engine is the per-submission orchestrator: it ties the condition evaluator,
// connection resolver, and conversation state machine together. It holds no
// respondent state itself; everything is re-read from the store on each call.
type Engine struct {
	forms    ports.FormProvider
	sessions *session.Manager
	machine  *conversationMachine
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithGenerator sets the follow-up question generator for dynamic blocks.
// Without one, dynamic conversations complete after the starter answer.
func WithGenerator(gen ports.QuestionGenerator) EngineOption {
	return func(e *Engine) {
		e.machine.generator = gen
	}
}

// WithGenerationTimeout bounds a single question-generation call.
func WithGenerationTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.machine.timeout = d
	}
}

// NewEngine creates an orchestrator over the given form graph and session manager.
func NewEngine(forms ports.FormProvider, sessions *session.Manager, opts ...EngineOption) *Engine {
	e := &Engine{
		forms:    forms,
		sessions: sessions,
		machine:  &conversationMachine{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.machine.logger = e.logger
	return e
}

// Start initializes a response at the form's first block.
func (e *Engine) Start(ctx context.Context, formID, responseID string) (*domain.ResponseState, *domain.Block, error) {
	blocks, err := e.forms.Blocks(ctx, formID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load form %s: %w", formID, err)
	}
	if len(blocks) == 0 {
		return nil, nil, fmt.Errorf("form %s has no blocks: %w", formID, domain.ErrBlockNotFound)
	}

	first := blocks[0]
	state := domain.NewResponseState(responseID, formID, first.ID)
	if first.IsDynamic() {
		state.Conversation(&first)
	}

	if err := e.saveState(ctx, state); err != nil {
		return nil, nil, err
	}

	e.emitBlockEnter(ctx, state, &first)
	return state, &first, nil
}

// Get returns the persisted state of a response.
func (e *Engine) Get(ctx context.Context, responseID string) (*domain.ResponseState, error) {
	return e.sessions.Load(ctx, responseID)
}

// Blocks exposes the ordered block graph of a form.
func (e *Engine) Blocks(ctx context.Context, formID string) ([]domain.Block, error) {
	return e.forms.Blocks(ctx, formID)
}

// Submit processes one answer: it advances the dynamic conversation when the
// block is dynamic, records the answer, resolves the next block, and persists
// the new state. All of it runs under the response's session lock.
func (e *Engine) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.SubmitResult, error) {
	var result *domain.SubmitResult
	err := e.sessions.WithLock(ctx, req.ResponseID, func(ctx context.Context) error {
		state, err := e.sessions.Store().Load(ctx, req.ResponseID)
		if err != nil {
			return err
		}

		res, err := e.submitLocked(ctx, state, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	return result, err
}

func (e *Engine) submitLocked(ctx context.Context, state *domain.ResponseState, req domain.SubmitRequest) (*domain.SubmitResult, error) {
	if state.Completed {
		return nil, domain.ErrResponseCompleted
	}

	blocks, err := e.forms.Blocks(ctx, state.FormID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form %s: %w", state.FormID, err)
	}
	block := findBlock(blocks, req.BlockID)
	if block == nil {
		return nil, fmt.Errorf("block %s: %w", req.BlockID, domain.ErrBlockNotFound)
	}

	answer, err := sanitizeAnswer(req.Answer)
	if err != nil {
		return nil, err
	}
	req.Answer = answer

	if block.IsDynamic() {
		return e.submitDynamic(ctx, state, block, blocks, req)
	}
	return e.submitStatic(ctx, state, block, blocks, req)
}

func (e *Engine) submitStatic(ctx context.Context, state *domain.ResponseState, block *domain.Block, blocks []domain.Block, req domain.SubmitRequest) (*domain.SubmitResult, error) {
	if err := schema.ValidateAnswer(block, req.Answer); err != nil {
		return nil, err
	}
	state.Answers[block.ID] = req.Answer
	return e.route(ctx, state, block, blocks, &domain.SubmitResult{})
}

func (e *Engine) submitDynamic(ctx context.Context, state *domain.ResponseState, block *domain.Block, blocks []domain.Block, req domain.SubmitRequest) (*domain.SubmitResult, error) {
	conv := state.Conversation(block)

	// A completed conversation is terminal: resubmissions route onward
	// without reopening it (idempotent retries).
	if !conv.IsComplete() {
		adv, err := e.machine.Advance(ctx, conv, block, ConversationEvent{
			Answer:              coerceString(req.Answer),
			ActiveQuestionIndex: req.ActiveQuestionIndex,
			IsFirstQuestion:     req.IsFirstQuestion,
		})
		if err != nil {
			return nil, err
		}
		conv = adv.conv
		state.Conversations[block.ID] = conv

		e.emitGeneration(ctx, state, block, conv, adv)

		if !conv.IsComplete() {
			if err := e.saveState(ctx, state); err != nil {
				return nil, err
			}
			return &domain.SubmitResult{
				Completed:    false,
				NextQuestion: conv.NextQuestion,
				Conversation: conv,
			}, nil
		}

		if adv.fallback {
			// Conversation was force-completed; the caller still routes
			// onward but surfaces the fixed fallback message.
			result := &domain.SubmitResult{DynamicComplete: true, Message: domain.FallbackMessage}
			state.Answers[block.ID] = conv.EffectiveAnswer()
			return e.route(ctx, state, block, blocks, result)
		}
	}

	state.Answers[block.ID] = conv.EffectiveAnswer()
	return e.route(ctx, state, block, blocks, &domain.SubmitResult{DynamicComplete: true})
}

// route resolves the next block, mutates the state accordingly, persists it,
// and fills in the result.
func (e *Engine) route(ctx context.Context, state *domain.ResponseState, block *domain.Block, blocks []domain.Block, result *domain.SubmitResult) (*domain.SubmitResult, error) {
	conns, err := e.forms.OutgoingConnections(ctx, state.FormID, block.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load connections for %s: %w", block.ID, err)
	}

	resolution := Resolve(block, conns, blocks, state.AnswerContext(), e.logger)

	e.emitBlockLeave(ctx, state, block)

	if resolution.Completed {
		state.Completed = true
		state.UpdatedAt = time.Now().UTC()
		if err := e.saveState(ctx, state); err != nil {
			return nil, err
		}
		e.emitFormComplete(ctx, state, block)
		result.Completed = true
		return result, nil
	}

	next := findBlock(blocks, resolution.NextBlockID)
	if next == nil {
		// Dangling explicit target: resolve to completion rather than erroring.
		e.logger.Warn("resolved target does not exist, completing form",
			"response_id", state.ID,
			"target_id", resolution.NextBlockID)
		state.Completed = true
		state.UpdatedAt = time.Now().UTC()
		if err := e.saveState(ctx, state); err != nil {
			return nil, err
		}
		e.emitFormComplete(ctx, state, block)
		result.Completed = true
		return result, nil
	}

	state.CurrentBlockID = next.ID
	state.History = append(state.History, next.ID)
	state.UpdatedAt = time.Now().UTC()
	if next.IsDynamic() {
		state.Conversation(next)
	}
	if err := e.saveState(ctx, state); err != nil {
		return nil, err
	}

	e.emitBlockEnter(ctx, state, next)
	result.NextBlock = next
	return result, nil
}

// saveState persists through the session manager's store with a single retry,
// keeping respondent-facing latency bounded while riding out transient
// storage failures.
func (e *Engine) saveState(ctx context.Context, state *domain.ResponseState) error {
	store := e.sessions.Store()
	err := store.Save(ctx, state.ID, state)
	if err == nil {
		return nil
	}

	e.logger.Warn("state save failed, retrying once", "response_id", state.ID, "err", err)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
	}
	if err := store.Save(ctx, state.ID, state); err != nil {
		return fmt.Errorf("failed to persist response %s: %w", state.ID, err)
	}
	return nil
}

func findBlock(blocks []domain.Block, id string) *domain.Block {
	for i := range blocks {
		if blocks[i].ID == id {
			return &blocks[i]
		}
	}
	return nil
}

// -- Hook emission --

func (e *Engine) emitBlockEnter(ctx context.Context, state *domain.ResponseState, block *domain.Block) {
	if e.hooks.OnBlockEnter == nil {
		return
	}
	e.hooks.OnBlockEnter(ctx, &domain.BlockEvent{
		Timestamp:  time.Now().UTC(),
		Type:       domain.EventBlockEnter,
		ResponseID: state.ID,
		BlockID:    block.ID,
		BlockType:  block.Type,
	})
}

func (e *Engine) emitBlockLeave(ctx context.Context, state *domain.ResponseState, block *domain.Block) {
	if e.hooks.OnBlockLeave == nil {
		return
	}
	e.hooks.OnBlockLeave(ctx, &domain.BlockEvent{
		Timestamp:  time.Now().UTC(),
		Type:       domain.EventBlockLeave,
		ResponseID: state.ID,
		BlockID:    block.ID,
		BlockType:  block.Type,
	})
}

func (e *Engine) emitFormComplete(ctx context.Context, state *domain.ResponseState, block *domain.Block) {
	if e.hooks.OnFormComplete == nil {
		return
	}
	e.hooks.OnFormComplete(ctx, &domain.BlockEvent{
		Timestamp:  time.Now().UTC(),
		Type:       domain.EventFormComplete,
		ResponseID: state.ID,
		BlockID:    block.ID,
		BlockType:  block.Type,
	})
}

func (e *Engine) emitGeneration(ctx context.Context, state *domain.ResponseState, block *domain.Block, conv *domain.Conversation, adv advanceResult) {
	if e.hooks.OnGeneration == nil || adv.replayed {
		return
	}
	e.hooks.OnGeneration(ctx, &domain.GenerationEvent{
		Timestamp:     time.Now().UTC(),
		ResponseID:    state.ID,
		BlockID:       block.ID,
		QuestionIndex: len(conv.Entries),
		Duration:      adv.genDuration,
		Fallback:      adv.fallback,
	})
}
