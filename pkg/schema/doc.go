// Package schema validates submitted answers against their block's subtype.
//
// Each block subtype maps to a validator: short_text expects a string, number
// expects a numeric value, checkbox expects a list drawn from the block's
// options, and so on. The engine runs the validator on every static-block
// submission; adapters can surface the aggregated failures to the respondent.
//
// Basic usage:
//
//	if err := schema.ValidateAnswer(block, answer); err != nil {
//	    // err wraps domain.ErrInvalidAnswer
//	}
//
// Validators can also be built directly for custom front ends:
//
//	v := schema.ForBlock(block)
//	fmt.Println(v.Name()) // e.g. "multiple_choice"
package schema
