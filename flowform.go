package flowform

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/internal/runtime"
	"github.com/flowform/engine/pkg/adapters/memory"
	"github.com/flowform/engine/pkg/domain"
	"github.com/flowform/engine/pkg/ports"
	"github.com/flowform/engine/pkg/session"
)

// Engine is the high-level entry point for the FlowForm library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	sessions    *session.Manager
	forms       ports.FormProvider
	store       ports.ResponseStore
	locker      ports.DistributedLocker
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStore injects a response store, bypassing the default in-memory one.
func WithStore(store ports.ResponseStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking across engine replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithGenerator sets the follow-up question generator for dynamic blocks.
// Without one, dynamic conversations complete after the starter answer.
func WithGenerator(gen ports.QuestionGenerator) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithGenerator(gen))
	}
}

// WithGenerationTimeout bounds a single question-generation call.
func WithGenerationTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithGenerationTimeout(d))
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a FlowForm Engine over the given form provider.
// By default responses are kept in memory; inject a store (e.g. Redis) for
// durable multi-replica deployments.
func New(forms ports.FormProvider, opts ...Option) (*Engine, error) {
	eng := &Engine{forms: forms}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(eng.forms, eng.sessions, runtimeOpts...)
	return eng, nil
}

// Start creates a fresh response positioned at the form's first block.
func (e *Engine) Start(ctx context.Context, formID, responseID string) (*domain.ResponseState, *domain.Block, error) {
	return e.runtime.Start(ctx, formID, responseID)
}

// Submit processes one answer and returns what to show next: a follow-up
// question, the next block, or form completion.
func (e *Engine) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.SubmitResult, error) {
	return e.runtime.Submit(ctx, req)
}

// Get returns the persisted state of a response.
func (e *Engine) Get(ctx context.Context, responseID string) (*domain.ResponseState, error) {
	return e.runtime.Get(ctx, responseID)
}

// Blocks exposes the ordered block graph of a form.
func (e *Engine) Blocks(ctx context.Context, formID string) ([]domain.Block, error) {
	return e.runtime.Blocks(ctx, formID)
}

// Validate runs the author-facing static checks over a form's graph:
// self-loops, dangling targets, inert rules, ambiguous order indexes.
func (e *Engine) Validate(ctx context.Context, formID string) ([]domain.Issue, error) {
	return e.runtime.Validate(ctx, formID)
}

// Sessions returns the session manager, mainly for adapters that need
// direct store access (listing, deletion).
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Forms returns the underlying form provider used by the engine.
func (e *Engine) Forms() ports.FormProvider {
	return e.forms
}
