// Package mcp exposes the FlowForm engine as an MCP server so AI agents can
// fill out forms programmatically.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	flowform "github.com/flowform/engine"
	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
)

// StartResponse is the structured result of the start_response tool.
type StartResponse struct {
	ResponseID string        `json:"response_id" jsonschema_description:"The ID of the created response"`
	FormID     string        `json:"form_id" jsonschema_description:"The form being filled"`
	Block      *domain.Block `json:"block" jsonschema_description:"The first block to answer"`
	Question   string        `json:"question,omitempty" jsonschema_description:"The opening question of a dynamic first block"`
}

// SubmitResponse is the structured result of the submit_answer tool.
type SubmitResponse struct {
	Completed    bool          `json:"completed" jsonschema_description:"True once the form is fully answered"`
	NextBlock    *domain.Block `json:"next_block,omitempty" jsonschema_description:"The next block to answer"`
	NextQuestion string        `json:"next_question,omitempty" jsonschema_description:"The next follow-up question of an open conversation"`
	Message      string        `json:"message,omitempty" jsonschema_description:"Respondent-facing notice, e.g. when follow-up generation was skipped"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Start(ctx context.Context, formID, responseID string) (*domain.ResponseState, *domain.Block, error)
	Submit(ctx context.Context, req domain.SubmitRequest) (*domain.SubmitResult, error)
	Get(ctx context.Context, responseID string) (*domain.ResponseState, error)
	Blocks(ctx context.Context, formID string) ([]domain.Block, error)
	Validate(ctx context.Context, formID string) ([]domain.Issue, error)
}

// Server wraps the FlowForm Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("flowform-mcp", strings.TrimSpace(flowform.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: start_response
	startTool := mcp.NewTool("start_response",
		mcp.WithDescription("Start filling out a form. Returns the first block to answer."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The ID of the form to fill")),
		mcp.WithString("response_id", mcp.Description("Pin a response ID for idempotent restarts (optional, a UUID is issued otherwise)")),
		mcp.WithOutputSchema[StartResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartResponse))

	// TOOL: submit_answer
	submitTool := mcp.NewTool("submit_answer",
		mcp.WithDescription("Submit the answer to the current block. Returns the next question, next block, or completion."),
		mcp.WithString("response_id", mcp.Required(), mcp.Description("The response being filled")),
		mcp.WithString("block_id", mcp.Required(), mcp.Description("The block being answered")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The answer text")),
		mcp.WithBoolean("is_first_question", mcp.Description("True when answering the opening question of a dynamic block")),
		mcp.WithOutputSchema[SubmitResponse](),
	)
	s.mcpServer.AddTool(submitTool, mcp.NewStructuredToolHandler(s.handleSubmitAnswer))

	// TOOL: inspect_form
	s.mcpServer.AddTool(mcp.NewTool("inspect_form",
		mcp.WithDescription("Get a form's full block graph plus its validation findings."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The ID of the form to inspect")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		formID := request.GetString("form_id", "")
		blocks, err := s.engine.Blocks(ctx, formID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		issues, err := s.engine.Validate(ctx, formID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validate failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(map[string]any{
			"blocks": blocks,
			"issues": issues,
		})
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleStartResponse(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StartResponse, error) {
	formID, _ := args["form_id"].(string)
	if formID == "" {
		return StartResponse{}, fmt.Errorf("form_id is required")
	}

	responseID, _ := args["response_id"].(string)
	if responseID == "" {
		responseID = uuid.NewString()
	}

	state, first, err := s.engine.Start(ctx, formID, responseID)
	if err != nil {
		return StartResponse{}, fmt.Errorf("start failed: %w", err)
	}

	resp := StartResponse{
		ResponseID: state.ID,
		FormID:     state.FormID,
		Block:      first,
	}
	if first.IsDynamic() {
		resp.Question = first.StarterPrompt()
	}
	return resp, nil
}

func (s *Server) handleSubmitAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SubmitResponse, error) {
	responseID, _ := args["response_id"].(string)
	blockID, _ := args["block_id"].(string)
	answer, _ := args["answer"].(string)
	isFirst, _ := args["is_first_question"].(bool)

	if responseID == "" || blockID == "" {
		return SubmitResponse{}, fmt.Errorf("response_id and block_id are required")
	}

	result, err := s.engine.Submit(ctx, domain.SubmitRequest{
		ResponseID:      responseID,
		BlockID:         blockID,
		Answer:          answer,
		IsFirstQuestion: isFirst,
	})
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("submit failed: %w", err)
	}

	return SubmitResponse{
		Completed:    result.Completed,
		NextBlock:    result.NextBlock,
		NextQuestion: result.NextQuestion,
		Message:      result.Message,
	}, nil
}
