// Package http exposes the FlowForm engine over a REST surface for form
// renderers and embedded widgets.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	flowform "github.com/flowform/engine"
	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
)

// Engine defines the interface for the FlowForm response core.
type Engine interface {
	Start(ctx context.Context, formID, responseID string) (*domain.ResponseState, *domain.Block, error)
	Submit(ctx context.Context, req domain.SubmitRequest) (*domain.SubmitResult, error)
	Get(ctx context.Context, responseID string) (*domain.ResponseState, error)
	Blocks(ctx context.Context, formID string) ([]domain.Block, error)
	Validate(ctx context.Context, formID string) ([]domain.Issue, error)
}

// Server routes respondent traffic to the engine.
type Server struct {
	engine Engine
	logger *slog.Logger
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

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/version", s.version)
	r.Route("/forms/{formID}", func(r chi.Router) {
		r.Get("/blocks", s.getBlocks)
		r.Get("/validate", s.validate)
		r.Post("/responses", s.startResponse)
	})
	r.Route("/responses/{responseID}", func(r chi.Router) {
		r.Get("/", s.getResponse)
		r.Post("/submit", s.submit)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// startResponseBody is the optional payload of POST /forms/{formID}/responses.
type startResponseBody struct {
	ResponseID string `json:"response_id,omitempty"`
}

// startResponseReply is what a renderer needs to show the first block.
type startResponseReply struct {
	ResponseID string        `json:"response_id"`
	FormID     string        `json:"form_id"`
	Block      *domain.Block `json:"block"`
	Question   string        `json:"question,omitempty"`
}

// startResponse handles POST /forms/{formID}/responses.
// The client may pin its own response ID (idempotent restarts); otherwise a
// fresh UUID is issued.
func (s *Server) startResponse(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	var body startResponseBody
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	responseID := strings.TrimSpace(body.ResponseID)
	if responseID == "" {
		responseID = uuid.NewString()
	}

	state, first, err := s.engine.Start(r.Context(), formID, responseID)
	if err != nil {
		s.writeEngineError(w, err, "start failed")
		return
	}

	reply := startResponseReply{
		ResponseID: state.ID,
		FormID:     state.FormID,
		Block:      first,
	}
	if first.IsDynamic() {
		reply.Question = first.StarterPrompt()
	}
	s.writeJSON(w, http.StatusCreated, reply)
}

// submitBody is the payload of POST /responses/{responseID}/submit.
type submitBody struct {
	BlockID             string `json:"block_id"`
	Answer              any    `json:"answer"`
	ActiveQuestionIndex int    `json:"active_question_index,omitempty"`
	IsFirstQuestion     bool   `json:"is_first_question,omitempty"`
}

// submit handles POST /responses/{responseID}/submit.
func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	responseID := chi.URLParam(r, "responseID")

	var body submitBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.BlockID == "" {
		s.writeError(w, http.StatusBadRequest, "block_id is required")
		return
	}

	result, err := s.engine.Submit(r.Context(), domain.SubmitRequest{
		ResponseID:          responseID,
		BlockID:             body.BlockID,
		Answer:              body.Answer,
		ActiveQuestionIndex: body.ActiveQuestionIndex,
		IsFirstQuestion:     body.IsFirstQuestion,
	})
	if err != nil {
		s.writeEngineError(w, err, "submit failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// getResponse handles GET /responses/{responseID}.
func (s *Server) getResponse(w http.ResponseWriter, r *http.Request) {
	responseID := chi.URLParam(r, "responseID")
	state, err := s.engine.Get(r.Context(), responseID)
	if err != nil {
		s.writeEngineError(w, err, "get failed")
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// getBlocks handles GET /forms/{formID}/blocks.
func (s *Server) getBlocks(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	blocks, err := s.engine.Blocks(r.Context(), formID)
	if err != nil {
		s.writeEngineError(w, err, "blocks failed")
		return
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

// validate handles GET /forms/{formID}/validate.
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	issues, err := s.engine.Validate(r.Context(), formID)
	if err != nil {
		s.writeEngineError(w, err, "validate failed")
		return
	}
	if issues == nil {
		issues = []domain.Issue{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"issues": issues})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "flowform-http",
		"version": strings.TrimSpace(flowform.Version),
	})
}

// -- Helpers --

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps domain sentinels to HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrResponseNotFound),
		errors.Is(err, domain.ErrFormNotFound),
		errors.Is(err, domain.ErrBlockNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrResponseCompleted):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidAnswer):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(logMsg, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}
