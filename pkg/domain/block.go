package domain

// BlockType constants define how a block collects its answer.
const (
	// BlockStatic displays a fixed question and records a single answer.
	BlockStatic = "static"
	// BlockDynamic runs an open-ended AI-driven follow-up conversation.
	BlockDynamic = "dynamic"
)

// BlockSubtype identifies the presentation variant of a block.
// Unrecognized values decode to SubtypeUnknown; downstream logic switches
// on the enum and never sniffs raw strings.
type BlockSubtype string

const (
	SubtypeShortText      BlockSubtype = "short_text"
	SubtypeLongText       BlockSubtype = "long_text"
	SubtypeMultipleChoice BlockSubtype = "multiple_choice"
	SubtypeCheckbox       BlockSubtype = "checkbox"
	SubtypeNumber         BlockSubtype = "number"
	SubtypeEmail          BlockSubtype = "email"
	SubtypeRating         BlockSubtype = "rating"
	SubtypeConversation   BlockSubtype = "conversation"
	SubtypeUnknown        BlockSubtype = "unknown"
)

// ParseSubtype maps a raw subtype string to the known enum, defaulting to
// SubtypeUnknown rather than guessing.
func ParseSubtype(s string) BlockSubtype {
	switch BlockSubtype(s) {
	case SubtypeShortText, SubtypeLongText, SubtypeMultipleChoice, SubtypeCheckbox,
		SubtypeNumber, SubtypeEmail, SubtypeRating, SubtypeConversation:
		return BlockSubtype(s)
	}
	return SubtypeUnknown
}

// DefaultMaxQuestions caps a dynamic conversation when the block settings
// do not specify a limit.
const DefaultMaxQuestions = 5

// BlockSettings holds type-specific configuration.
type BlockSettings struct {
	// StarterPrompt is the opening question of a dynamic block.
	StarterPrompt string `json:"starter_prompt,omitempty" yaml:"starter_prompt,omitempty"`

	// MaxQuestions is the hard cap on QA pairs in a dynamic conversation.
	// Zero means DefaultMaxQuestions.
	MaxQuestions int `json:"max_questions,omitempty" yaml:"max_questions,omitempty"`

	// Temperature is forwarded to the question generator.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// Options lists the choices for choice-style blocks.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Block represents a single form question/step.
type Block struct {
	ID         string       `json:"id" yaml:"id"`
	Type       string       `json:"type" yaml:"type"` // "static" or "dynamic"
	Subtype    BlockSubtype `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	OrderIndex int          `json:"order_index" yaml:"order_index"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`

	Settings BlockSettings `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// IsDynamic reports whether the block runs a follow-up conversation.
func (b *Block) IsDynamic() bool {
	return b.Type == BlockDynamic
}

// MaxQuestions returns the effective conversation cap for this block.
func (b *Block) MaxQuestions() int {
	if b.Settings.MaxQuestions > 0 {
		return b.Settings.MaxQuestions
	}
	return DefaultMaxQuestions
}

// StarterPrompt returns the opening question, falling back to the title.
func (b *Block) StarterPrompt() string {
	if b.Settings.StarterPrompt != "" {
		return b.Settings.StarterPrompt
	}
	return b.Title
}
