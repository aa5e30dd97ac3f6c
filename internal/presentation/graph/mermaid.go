package graph

import (
	"fmt"
	"strings"

	"github.com/flowform/engine/pkg/domain"
)

// GraphOverlay contains dynamic response data to visualize on the graph.
type GraphOverlay struct {
	VisitedBlocks []string
	CurrentBlock  string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a form graph.
// It applies semantic styling:
// - First block: ((Circle))
// - Dynamic block: [/Parallelogram/]
// - Static block: [Rectangle]
// Rule edges carry their condition summary; implicit sequential connections
// are dotted. It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(blocks []domain.Block, conns map[string][]domain.Connection, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, block := range blocks {
		safeID := sanitizeMermaidID(block.ID)

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))" // Entry
		case block.IsDynamic():
			opener, closer = "[/", "/]" // Conversation
		}

		label := block.Title
		if label == "" {
			label = block.ID
		}
		if block.IsDynamic() {
			label = fmt.Sprintf("%s <br/> 🗨 max %d", label, block.MaxQuestions())
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(label), closer))

		for _, conn := range conns[block.ID] {
			arrow := "-->"
			if !conn.IsExplicit {
				arrow = "-.->"
			}

			for _, rule := range conn.Rules {
				safeTo := sanitizeMermaidID(rule.TargetBlockID)
				cond := summarizeConditions(rule.Conditions.Conditions)
				if cond != "" {
					sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, escapeMermaidLabel(cond), safeTo))
				} else {
					sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
				}
			}

			if conn.DefaultTargetID != "" {
				safeTo := sanitizeMermaidID(conn.DefaultTargetID)
				if len(conn.Rules) > 0 {
					sb.WriteString(fmt.Sprintf("    %s -- \"default\" --> %s\n", safeID, safeTo))
				} else {
					sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
				}
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedBlocks {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentBlock != "" {
			safeCurrent := sanitizeMermaidID(overlay.CurrentBlock)
			sb.WriteString(fmt.Sprintf("    class %s current;\n", safeCurrent))
		}
	}

	return sb.String()
}

// summarizeConditions renders a compact human-readable form of the rule's
// left-to-right condition chain, e.g. `role equals engineer or role equals lead`.
func summarizeConditions(conds []domain.Condition) string {
	var parts []string
	for i, c := range conds {
		parts = append(parts, fmt.Sprintf("%s %s %v", c.Field, c.Operator, c.Value))
		if i < len(conds)-1 {
			join := c.LogicalOperator
			if join == "" {
				join = domain.LogicalAnd
			}
			parts = append(parts, string(join))
		}
	}
	return strings.Join(parts, " ")
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
