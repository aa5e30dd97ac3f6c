package runtime

import (
	"context"
	"fmt"

	"github.com/flowform/engine/pkg/domain"
)

// Validate runs the author-facing static checks over a form's graph.
func (e *Engine) Validate(ctx context.Context, formID string) ([]domain.Issue, error) {
	blocks, err := e.forms.Blocks(ctx, formID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(blocks))
	orderSeen := make(map[int]string, len(blocks))
	var issues []domain.Issue

	for _, b := range blocks {
		known[b.ID] = true
		if prev, dup := orderSeen[b.OrderIndex]; dup {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityWarning,
				BlockID:  b.ID,
				Message:  fmt.Sprintf("order index %d already used by block %s; sequential fallback order is ambiguous", b.OrderIndex, prev),
			})
		} else {
			orderSeen[b.OrderIndex] = b.ID
		}
		if b.IsDynamic() && b.Settings.StarterPrompt == "" {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityWarning,
				BlockID:  b.ID,
				Message:  "dynamic block has no starter prompt; the title will be used",
			})
		}
	}

	for _, b := range blocks {
		conns, err := e.forms.OutgoingConnections(ctx, formID, b.ID)
		if err != nil {
			return nil, err
		}
		for _, conn := range conns {
			issues = append(issues, validateConnection(b.ID, conn, known)...)
		}
	}
	return issues, nil
}

func validateConnection(blockID string, conn domain.Connection, known map[string]bool) []domain.Issue {
	var issues []domain.Issue

	if conn.DefaultTargetID == blockID {
		issues = append(issues, domain.Issue{
			Severity:     domain.SeverityError,
			BlockID:      blockID,
			ConnectionID: conn.ID,
			Message:      "default target points back at its source (self-loop)",
		})
	} else if conn.DefaultTargetID != "" && !known[conn.DefaultTargetID] {
		issues = append(issues, domain.Issue{
			Severity:     domain.SeverityError,
			BlockID:      blockID,
			ConnectionID: conn.ID,
			Message:      fmt.Sprintf("default target %q does not exist", conn.DefaultTargetID),
		})
	}

	for _, rule := range conn.Rules {
		if rule.Inert() {
			issues = append(issues, domain.Issue{
				Severity:     domain.SeverityWarning,
				BlockID:      blockID,
				ConnectionID: conn.ID,
				RuleID:       rule.ID,
				Message:      "rule has no conditions and will never match",
			})
		}
		if rule.TargetBlockID == blockID {
			issues = append(issues, domain.Issue{
				Severity:     domain.SeverityError,
				BlockID:      blockID,
				ConnectionID: conn.ID,
				RuleID:       rule.ID,
				Message:      "rule target points back at its source (self-loop)",
			})
		} else if rule.TargetBlockID != "" && !known[rule.TargetBlockID] {
			issues = append(issues, domain.Issue{
				Severity:     domain.SeverityError,
				BlockID:      blockID,
				ConnectionID: conn.ID,
				RuleID:       rule.ID,
				Message:      fmt.Sprintf("rule target %q does not exist", rule.TargetBlockID),
			})
		}
		for _, cond := range rule.Conditions.Conditions {
			if cond.Field == "" || cond.Operator == "" {
				issues = append(issues, domain.Issue{
					Severity:     domain.SeverityWarning,
					BlockID:      blockID,
					ConnectionID: conn.ID,
					RuleID:       rule.ID,
					Message:      "condition is missing a field or operator and will never match",
				})
			}
		}
	}
	return issues
}
