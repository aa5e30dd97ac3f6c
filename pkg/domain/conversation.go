package domain

import (
	"strings"
	"time"
)

// ConversationStatus defines the current mode of one dynamic-block sub-conversation.
type ConversationStatus string

const (
	ConversationNotStarted       ConversationStatus = "not_started"
	ConversationAwaitingFirst    ConversationStatus = "awaiting_first_answer"
	ConversationAwaitingFollowup ConversationStatus = "awaiting_followup_answer"
	ConversationComplete         ConversationStatus = "complete"
)

// FallbackMessage is shown to respondents when question generation fails.
// They never see the underlying error.
const FallbackMessage = "We're having trouble generating the next question, so we'll move on. Your answers have been saved."

// QAPair is one question/answer exchange within a conversation.
type QAPair struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
	IsStarter bool      `json:"is_starter,omitempty"`
}

// FollowUp is the outcome of one question-generation call: either the next
// question to ask, or an explicit "no more questions" signal.
type FollowUp struct {
	Question string `json:"question,omitempty"`
	Done     bool   `json:"done,omitempty"`
}

// Conversation is the per-respondent, per-dynamic-block QA history.
type Conversation struct {
	Entries []QAPair `json:"entries"`

	// ActiveQuestionIndex is the entry index the respondent is currently
	// answering. Equal to len(Entries) when answering the newest open question.
	ActiveQuestionIndex int `json:"active_question_index"`

	Status ConversationStatus `json:"status"`

	// NextQuestion is the pending open question, empty once complete.
	NextQuestion string `json:"next_question,omitempty"`

	// LastKey identifies the (block, index, answer) tuple the pending
	// NextQuestion was generated for, so identical resubmissions replay it
	// instead of regenerating.
	LastKey string `json:"last_key,omitempty"`
}

// NewConversation creates an empty conversation awaiting the starter answer.
func NewConversation(starter string) *Conversation {
	return &Conversation{
		Entries:      []QAPair{},
		Status:       ConversationAwaitingFirst,
		NextQuestion: starter,
	}
}

// IsComplete reports whether the conversation has finished.
func (c *Conversation) IsComplete() bool {
	return c.Status == ConversationComplete
}

// EffectiveAnswer is the value a completed conversation contributes to the
// answer context for condition matching: the respondent's answers joined by
// newlines, in order.
func (c *Conversation) EffectiveAnswer() string {
	answers := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		answers = append(answers, e.Answer)
	}
	return strings.Join(answers, "\n")
}

// Clone returns a deep copy safe for mutation.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	next := *c
	next.Entries = make([]QAPair, len(c.Entries))
	copy(next.Entries, c.Entries)
	return &next
}
