package domain

// LogicalOperator chains a condition with the one that follows it.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and"
	LogicalOr  LogicalOperator = "or"
)

// Operator is the comparison applied by a single condition.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpBetween     Operator = "between"
)

// Condition is one atomic test against a previously recorded answer.
// LogicalOperator belongs to the condition BEFORE the join: it states how
// this condition combines with the NEXT one in the group. Evaluation is a
// strict left-to-right chain, not a grouped boolean tree.
type Condition struct {
	ID       string   `json:"id,omitempty" yaml:"id,omitempty"`
	Field    string   `json:"field" yaml:"field"` // block ID whose answer is tested
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value" yaml:"value"`

	LogicalOperator LogicalOperator `json:"logical_operator,omitempty" yaml:"logical_operator,omitempty"`
}

// ConditionGroup is the ordered list of conditions of one rule.
type ConditionGroup struct {
	Conditions []Condition `json:"conditions" yaml:"conditions"`

	// Operator is the legacy group-level combinator. It is superseded by the
	// per-condition LogicalOperator chain and only retained so old form
	// definitions still decode.
	Operator LogicalOperator `json:"operator,omitempty" yaml:"operator,omitempty"`
}

// Rule is one conditional branch of a connection.
type Rule struct {
	ID            string         `json:"id,omitempty" yaml:"id,omitempty"`
	TargetBlockID string         `json:"target_block_id" yaml:"target_block_id"`
	Conditions    ConditionGroup `json:"condition_group" yaml:"condition_group"`
}

// Inert reports whether the rule can never match. Inert rules are surfaced
// to the form author by the validator but do not break evaluation.
func (r *Rule) Inert() bool {
	return len(r.Conditions.Conditions) == 0
}

// Connection is a directed edge from one source block to its conditional targets.
// Rules are evaluated in stored order; the first match wins. When no rule
// matches, DefaultTargetID is used. A connection must not target its own source.
type Connection struct {
	ID              string `json:"id,omitempty" yaml:"id,omitempty"`
	SourceID        string `json:"source_id" yaml:"source_id"`
	Rules           []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	DefaultTargetID string `json:"default_target_id,omitempty" yaml:"default_target_id,omitempty"`

	// IsExplicit distinguishes author-drawn branching from implicit
	// sequential flow connections created on block delete/reorder.
	IsExplicit bool `json:"is_explicit,omitempty" yaml:"is_explicit,omitempty"`

	OrderIndex int `json:"order_index,omitempty" yaml:"order_index,omitempty"`
}
