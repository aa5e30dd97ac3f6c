package domain

import "time"

// ResponseState represents one respondent's progress across a form.
// It owns zero-or-one answer per static block and zero-or-one Conversation
// per dynamic block encountered.
type ResponseState struct {
	ID     string `json:"id"`
	FormID string `json:"form_id"`

	// CurrentBlockID is the block the respondent is answering.
	CurrentBlockID string `json:"current_block_id"`

	// Answers maps block ID to the most recent answer value. Completed
	// dynamic blocks contribute their conversation's EffectiveAnswer here.
	Answers map[string]any `json:"answers"`

	// Conversations maps dynamic block ID to its sub-conversation.
	Conversations map[string]*Conversation `json:"conversations,omitempty"`

	Completed bool `json:"completed"`

	// History tracks the blocks visited, in order.
	History []string `json:"history"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewResponseState creates a fresh session positioned at the first block.
func NewResponseState(id, formID, startBlockID string) *ResponseState {
	now := time.Now().UTC()
	return &ResponseState{
		ID:             id,
		FormID:         formID,
		CurrentBlockID: startBlockID,
		Answers:        make(map[string]any),
		Conversations:  make(map[string]*Conversation),
		History:        []string{startBlockID},
		StartedAt:      now,
		UpdatedAt:      now,
	}
}

// Conversation returns the sub-conversation for a dynamic block, creating it
// on first access with the block's starter prompt pending.
func (s *ResponseState) Conversation(block *Block) *Conversation {
	if s.Conversations == nil {
		s.Conversations = make(map[string]*Conversation)
	}
	conv, ok := s.Conversations[block.ID]
	if !ok {
		conv = NewConversation(block.StarterPrompt())
		s.Conversations[block.ID] = conv
	}
	return conv
}

// AnswerContext returns the answer mapping used for condition evaluation.
// The returned map is a copy; callers may not mutate stored answers through it.
func (s *ResponseState) AnswerContext() map[string]any {
	out := make(map[string]any, len(s.Answers))
	for k, v := range s.Answers {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy safe for store isolation.
func (s *ResponseState) Clone() *ResponseState {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = make(map[string]any, len(s.Answers))
	for k, v := range s.Answers {
		next.Answers[k] = v
	}
	next.Conversations = make(map[string]*Conversation, len(s.Conversations))
	for k, v := range s.Conversations {
		next.Conversations[k] = v.Clone()
	}
	next.History = make([]string, len(s.History))
	copy(next.History, s.History)
	return &next
}
