package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBlockEnter   EventType = "block_enter"
	EventBlockLeave   EventType = "block_leave"
	EventGeneration   EventType = "generation"
	EventFormComplete EventType = "form_complete"
)

// BlockEvent represents entry into or exit from a block.
type BlockEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	ResponseID string    `json:"response_id"`
	BlockID    string    `json:"block_id"`
	BlockType  string    `json:"block_type"`
}

// GenerationEvent represents one follow-up question generation attempt.
type GenerationEvent struct {
	Timestamp     time.Time     `json:"timestamp"`
	ResponseID    string        `json:"response_id"`
	BlockID       string        `json:"block_id"`
	QuestionIndex int           `json:"question_index"`
	Duration      time.Duration `json:"duration"`
	Fallback      bool          `json:"fallback,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnBlockEnter   func(context.Context, *BlockEvent)
	OnBlockLeave   func(context.Context, *BlockEvent)
	OnGeneration   func(context.Context, *GenerationEvent)
	OnFormComplete func(context.Context, *BlockEvent)
}
