package runtime

import (
	"log/slog"
	"sort"

	"github.com/flowform/engine/pkg/domain"
)

// Resolution is the outcome of routing one answered block: either the ID of
// the next block to present, or the form-complete sentinel (Completed=true).
// Exactly one of the two is meaningful.
type Resolution struct {
	NextBlockID string
	Completed   bool
}

// Resolve determines the block that follows current, given its outgoing
// connections and the respondent's accumulated answers.
//
// Normally a source block has exactly one connection object carrying multiple
// rules, but multiple connections are tolerated defensively and evaluated in
// order index order. Within a connection, the first rule whose conditions
// match wins; with no match the connection's default target applies. A target
// equal to the source is rejected (self-loop guard) and treated as no match.
// When nothing explicit resolves, flow falls through to the next block by
// order index, and past the last block to form completion.
func Resolve(current *domain.Block, conns []domain.Connection, blocks []domain.Block, answers map[string]any, logger *slog.Logger) Resolution {
	ordered := make([]domain.Connection, 0, len(conns))
	for _, conn := range conns {
		if conn.SourceID != "" && conn.SourceID != current.ID {
			logger.Warn("ignoring connection with foreign source",
				"connection_id", conn.ID,
				"source_id", conn.SourceID,
				"block_id", current.ID)
			continue
		}
		ordered = append(ordered, conn)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	for _, conn := range ordered {
		for _, rule := range conn.Rules {
			if !EvaluateRule(rule, answers, logger) {
				continue
			}
			if rule.TargetBlockID == "" {
				continue
			}
			if rule.TargetBlockID == current.ID {
				logger.Warn("self-loop rule target rejected",
					"connection_id", conn.ID,
					"rule_id", rule.ID,
					"block_id", current.ID)
				continue
			}
			return Resolution{NextBlockID: rule.TargetBlockID}
		}

		if conn.DefaultTargetID != "" {
			if conn.DefaultTargetID == current.ID {
				logger.Warn("self-loop default target rejected",
					"connection_id", conn.ID,
					"block_id", current.ID)
				continue
			}
			return Resolution{NextBlockID: conn.DefaultTargetID}
		}
	}

	// Implicit sequential flow: author-drawn connections may coexist with
	// blocks that were never explicitly wired.
	if next := nextByOrder(blocks, current); next != nil {
		return Resolution{NextBlockID: next.ID}
	}
	return Resolution{Completed: true}
}

// nextByOrder returns the block with the smallest order index greater than
// current's, or nil when current is the last block.
func nextByOrder(blocks []domain.Block, current *domain.Block) *domain.Block {
	var next *domain.Block
	for i := range blocks {
		b := &blocks[i]
		if b.ID == current.ID || b.OrderIndex <= current.OrderIndex {
			continue
		}
		if next == nil || b.OrderIndex < next.OrderIndex {
			next = b
		}
	}
	return next
}
