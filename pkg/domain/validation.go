package domain

import "fmt"

// IssueSeverity grades a validation finding.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one author-facing finding from form graph validation. Issues never
// block respondents at runtime; the evaluator and resolver degrade gracefully.
type Issue struct {
	Severity     IssueSeverity `json:"severity"`
	BlockID      string        `json:"block_id,omitempty"`
	ConnectionID string        `json:"connection_id,omitempty"`
	RuleID       string        `json:"rule_id,omitempty"`
	Message      string        `json:"message"`
}

func (i Issue) String() string {
	loc := i.BlockID
	if i.ConnectionID != "" {
		loc = fmt.Sprintf("%s/connection %s", loc, i.ConnectionID)
	}
	if i.RuleID != "" {
		loc = fmt.Sprintf("%s/rule %s", loc, i.RuleID)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, loc, i.Message)
}
