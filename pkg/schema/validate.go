package schema

import "github.com/flowform/engine/pkg/domain"

// ForBlock returns the validator matching a block's subtype.
func ForBlock(block *domain.Block) Validator {
	switch block.Subtype {
	case domain.SubtypeShortText, domain.SubtypeLongText, domain.SubtypeConversation:
		return &TextValidator{}
	case domain.SubtypeNumber:
		return &NumberValidator{}
	case domain.SubtypeEmail:
		return &EmailValidator{}
	case domain.SubtypeRating:
		// The conventional 0..10 scale covers star and NPS style ratings.
		return &RatingValidator{Min: 0, Max: 10}
	case domain.SubtypeMultipleChoice:
		return &ChoiceValidator{Options: block.Settings.Options}
	case domain.SubtypeCheckbox:
		return &MultiChoiceValidator{Options: block.Settings.Options}
	default:
		return &AnyValidator{}
	}
}

// ValidateAnswer checks one submitted answer against its block. A nil or
// empty answer only fails when the block is required; anything else runs
// through the subtype's validator. The returned error wraps
// domain.ErrInvalidAnswer.
func ValidateAnswer(block *domain.Block, answer any) error {
	if isEmpty(answer) {
		if block.Required {
			return &ValidationError{BlockID: block.ID, Reason: "an answer is required"}
		}
		return nil
	}

	if err := ForBlock(block).Validate(answer); err != nil {
		return &ValidationError{BlockID: block.ID, Reason: err.Error(), Value: answer}
	}
	return nil
}

// ValidateAll checks every recorded answer against its block and collects
// all failures, for end-of-form review surfaces that report everything at
// once rather than stopping at the first bad field.
func ValidateAll(blocks []domain.Block, answers map[string]any) error {
	var errs []error
	for i := range blocks {
		block := &blocks[i]
		if err := ValidateAnswer(block, answers[block.ID]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

func isEmpty(answer any) bool {
	if answer == nil {
		return true
	}
	if s, ok := answer.(string); ok {
		return s == ""
	}
	return false
}
