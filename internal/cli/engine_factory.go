package cli

import (
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	flowform "github.com/flowform/engine"
	redisadapter "github.com/flowform/engine/pkg/adapters/redis"
	"github.com/flowform/engine/pkg/adapters/openai"
	"github.com/flowform/engine/pkg/ports"
)

// EngineOptions are the backend knobs shared by all commands.
type EngineOptions struct {
	Debug bool

	RedisURL string

	OpenAIURL   string
	OpenAIKey   string
	OpenAIModel string
}

// createEngine initializes a FlowForm engine with standard CLI conventions.
func createEngine(opts EngineOptions, forms ports.FormProvider, logger *slog.Logger, extra ...flowform.Option) (*flowform.Engine, error) {
	engineOpts := []flowform.Option{flowform.WithLogger(logger)}

	if opts.Debug {
		engineOpts = append(engineOpts, flowform.WithLifecycleHooks(createDebugHooks(logger)))
	}

	// Durable state: a Redis URL switches both the store and the locker so
	// multiple replicas can share responses.
	if opts.RedisURL != "" {
		redisOpts, err := backend.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		client := backend.NewClient(redisOpts)
		engineOpts = append(engineOpts,
			flowform.WithStore(redisadapter.NewFromClient(client)),
			flowform.WithLocker(redisadapter.NewLocker(client, "flowform:lock:")),
		)
	}

	// Follow-up questions: without an endpoint, dynamic blocks complete
	// after the starter answer.
	if opts.OpenAIURL != "" {
		genOpts := []openai.Option{openai.WithLogger(logger)}
		if opts.OpenAIKey != "" {
			genOpts = append(genOpts, openai.WithAPIKey(opts.OpenAIKey))
		}
		if opts.OpenAIModel != "" {
			genOpts = append(genOpts, openai.WithModel(opts.OpenAIModel))
		}
		engineOpts = append(engineOpts, flowform.WithGenerator(openai.New(opts.OpenAIURL, genOpts...)))
	}

	engineOpts = append(engineOpts, extra...)

	engine, err := flowform.New(forms, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
