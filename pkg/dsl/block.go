package dsl

import "github.com/flowform/engine/pkg/domain"

// BlockBuilder provides a fluent API for configuring a block and its
// outgoing connection.
type BlockBuilder struct {
	block   domain.Block
	conn    *domain.Connection
	builder *Builder
}

// Title sets the question text shown to the respondent.
func (n *BlockBuilder) Title(title string) *BlockBuilder {
	n.block.Title = title
	return n
}

// Description adds supporting text below the title.
func (n *BlockBuilder) Description(desc string) *BlockBuilder {
	n.block.Description = desc
	return n
}

// Subtype sets the presentation variant (short_text, multiple_choice, ...).
func (n *BlockBuilder) Subtype(subtype domain.BlockSubtype) *BlockBuilder {
	n.block.Subtype = subtype
	return n
}

// Required marks the block as mandatory.
func (n *BlockBuilder) Required() *BlockBuilder {
	n.block.Required = true
	return n
}

// Options sets the choices of a multiple_choice or checkbox block.
func (n *BlockBuilder) Options(options ...string) *BlockBuilder {
	n.block.Settings.Options = options
	return n
}

// Starter sets the opening question of a dynamic block.
func (n *BlockBuilder) Starter(prompt string) *BlockBuilder {
	n.block.Settings.StarterPrompt = prompt
	return n
}

// MaxQuestions caps the follow-up conversation of a dynamic block.
func (n *BlockBuilder) MaxQuestions(max int) *BlockBuilder {
	n.block.Settings.MaxQuestions = max
	return n
}

// Temperature tunes the question generator for this block.
func (n *BlockBuilder) Temperature(t float64) *BlockBuilder {
	n.block.Settings.Temperature = t
	return n
}

// Go sets the unconditional default target of this block's connection.
func (n *BlockBuilder) Go(target string) *BlockBuilder {
	n.connection().DefaultTargetID = target
	return n
}

// Branch opens a conditional rule targeting the given block. Conditions are
// chained with When/And/Or; End returns to the block builder.
func (n *BlockBuilder) Branch(target string) *RuleBuilder {
	conn := n.connection()
	conn.Rules = append(conn.Rules, domain.Rule{TargetBlockID: target})
	return &RuleBuilder{
		block: n,
		rule:  &conn.Rules[len(conn.Rules)-1],
	}
}

// Done returns to the form builder.
func (n *BlockBuilder) Done() *Builder {
	return n.builder
}

// Build returns the underlying domain.Block.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *BlockBuilder) Build() domain.Block {
	return n.block
}

func (n *BlockBuilder) connection() *domain.Connection {
	if n.conn == nil {
		n.conn = &domain.Connection{
			SourceID:   n.block.ID,
			IsExplicit: true,
		}
	}
	return n.conn
}

// RuleBuilder accumulates the condition chain of one rule. The chain is
// evaluated strictly left to right at runtime.
type RuleBuilder struct {
	block *BlockBuilder
	rule  *domain.Rule
}

// When adds the first condition of the rule.
func (r *RuleBuilder) When(field string, op domain.Operator, value any) *RuleBuilder {
	r.rule.Conditions.Conditions = append(r.rule.Conditions.Conditions, domain.Condition{
		Field:    field,
		Operator: op,
		Value:    value,
	})
	return r
}

// And chains the next condition with a logical AND.
func (r *RuleBuilder) And(field string, op domain.Operator, value any) *RuleBuilder {
	r.join(domain.LogicalAnd)
	return r.When(field, op, value)
}

// Or chains the next condition with a logical OR.
func (r *RuleBuilder) Or(field string, op domain.Operator, value any) *RuleBuilder {
	r.join(domain.LogicalOr)
	return r.When(field, op, value)
}

// join records the combinator on the condition before the one being added.
func (r *RuleBuilder) join(op domain.LogicalOperator) {
	conds := r.rule.Conditions.Conditions
	if len(conds) > 0 {
		conds[len(conds)-1].LogicalOperator = op
	}
}

// End closes the rule and returns to the block builder.
func (r *RuleBuilder) End() *BlockBuilder {
	return r.block
}
