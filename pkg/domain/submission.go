package domain

// SubmitRequest is one answer submission from the presentation layer.
type SubmitRequest struct {
	ResponseID string `json:"response_id"`
	BlockID    string `json:"block_id"`

	// Answer is the raw answer payload. For dynamic blocks it is the answer
	// to the currently open question.
	Answer any `json:"answer"`

	// ActiveQuestionIndex addresses the conversation entry being answered on
	// dynamic blocks. Ignored for static blocks.
	ActiveQuestionIndex int `json:"active_question_index,omitempty"`

	// IsFirstQuestion marks the starter-prompt answer of a dynamic block.
	IsFirstQuestion bool `json:"is_first_question,omitempty"`
}

// SubmitResult is the orchestrator's answer to one submission. Exactly one of
// NextBlock, NextQuestion, or Completed is meaningful: a response never
// carries both a next block and a next question.
type SubmitResult struct {
	Completed bool `json:"completed"`

	NextBlock *Block `json:"next_block,omitempty"`

	// NextQuestion is set while a dynamic conversation is still open.
	NextQuestion string        `json:"next_question,omitempty"`
	Conversation *Conversation `json:"conversation,omitempty"`

	// DynamicComplete marks the submission that finished a dynamic block's
	// conversation and routed onward.
	DynamicComplete bool `json:"dynamic_complete,omitempty"`

	// Message carries the respondent-facing fallback text when question
	// generation failed. Never a raw error.
	Message string `json:"message,omitempty"`
}
