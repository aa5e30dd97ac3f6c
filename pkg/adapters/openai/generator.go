// Package openai implements the question-generation port against any
// OpenAI-compatible chat-completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
)

const systemPrompt = `You are the follow-up question engine of a form platform.
You are given the transcript of a short interview driven by one starter question.
Decide whether one more follow-up question would surface useful detail.
Respond with a single JSON object, nothing else:
  {"question": "<the next follow-up question>"} to continue, or
  {"done": true} when the topic is sufficiently covered.
Ask at most one question. Never repeat a question already asked.`

// Generator calls a chat-completions API to produce follow-up questions.
type Generator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures the Generator.
type Option func(*Generator)

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(g *Generator) { g.apiKey = key }
}

// WithModel selects the model name sent to the endpoint.
func WithModel(model string) Option {
	return func(g *Generator) { g.model = model }
}

// WithHTTPClient overrides the HTTP client (mainly for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) { g.client = client }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New creates a generator for an OpenAI-compatible endpoint, e.g.
// "https://api.openai.com/v1" or a local inference server.
func New(baseURL string, opts ...Option) *Generator {
	g := &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   "gpt-4o-mini",
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// GenerateFollowUp implements ports.QuestionGenerator. The caller bounds the
// call with a context timeout; any error maps to the engine's fallback path.
func (g *Generator) GenerateFollowUp(ctx context.Context, conv *domain.Conversation, block *domain.Block) (domain.FollowUp, error) {
	temperature := block.Settings.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	messages := []chatMessage{{Role: "system", Content: systemPrompt}}
	messages = append(messages, chatMessage{
		Role: "user",
		Content: fmt.Sprintf("Interview topic: %s\nStarter question: %s\nFollow-ups asked so far: %d (cap %d)",
			block.Title, block.StarterPrompt(), len(conv.Entries)-1, block.MaxQuestions()),
	})
	for _, entry := range conv.Entries {
		messages = append(messages,
			chatMessage{Role: "assistant", Content: entry.Question},
			chatMessage{Role: "user", Content: entry.Answer},
		)
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return domain.FollowUp{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return domain.FollowUp{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.FollowUp{}, fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.FollowUp{}, fmt.Errorf("chat completion API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.FollowUp{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return domain.FollowUp{}, fmt.Errorf("no choices in response")
	}

	return parseFollowUp(result.Choices[0].Message.Content), nil
}

// parseFollowUp interprets the model output. Models occasionally ignore the
// JSON instruction; a bare line of text is accepted as the question.
func parseFollowUp(content string) domain.FollowUp {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed domain.FollowUp
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		if parsed.Done || parsed.Question != "" {
			return parsed
		}
		return domain.FollowUp{Done: true}
	}

	if content == "" {
		return domain.FollowUp{Done: true}
	}
	return domain.FollowUp{Question: content}
}
