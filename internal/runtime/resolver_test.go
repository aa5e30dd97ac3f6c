package runtime

import (
	"testing"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
)

func surveyBlocks() []domain.Block {
	return []domain.Block{
		{ID: "name", Type: domain.BlockStatic, OrderIndex: 0},
		{ID: "role", Type: domain.BlockStatic, OrderIndex: 1},
		{ID: "thanks", Type: domain.BlockStatic, OrderIndex: 2},
	}
}

func TestResolve_RuleOrderFirstMatchWins(t *testing.T) {
	logger := logging.NewNop()
	blocks := surveyBlocks()
	conns := []domain.Connection{{
		SourceID: "name",
		Rules: []domain.Rule{
			{TargetBlockID: "thanks", Conditions: domain.ConditionGroup{Conditions: []domain.Condition{
				cond("name", domain.OpEquals, "skip"),
			}}},
			{TargetBlockID: "role", Conditions: domain.ConditionGroup{Conditions: []domain.Condition{
				cond("name", domain.OpContains, "s"),
			}}},
		},
	}}

	// Both rules match "skip"; the first in stored order wins.
	res := Resolve(&blocks[0], conns, blocks, map[string]any{"name": "skip"}, logger)
	if res.Completed || res.NextBlockID != "thanks" {
		t.Errorf("Expected thanks, got %+v", res)
	}
}

func TestResolve_DefaultFallback(t *testing.T) {
	logger := logging.NewNop()
	blocks := surveyBlocks()
	conns := []domain.Connection{{
		SourceID: "name",
		Rules: []domain.Rule{
			{TargetBlockID: "thanks", Conditions: domain.ConditionGroup{Conditions: []domain.Condition{
				cond("name", domain.OpEquals, "skip"),
			}}},
		},
		DefaultTargetID: "role",
	}}

	res := Resolve(&blocks[0], conns, blocks, map[string]any{"name": "Alice"}, logger)
	if res.NextBlockID != "role" {
		t.Errorf("Expected default target role, got %+v", res)
	}
}

func TestResolve_SequentialFallback(t *testing.T) {
	logger := logging.NewNop()
	blocks := surveyBlocks()

	// No connections at all: implicit flow by order index.
	res := Resolve(&blocks[0], nil, blocks, nil, logger)
	if res.NextBlockID != "role" {
		t.Errorf("Expected sequential next role, got %+v", res)
	}

	// Order index gaps are fine; the smallest greater index wins.
	gapped := []domain.Block{
		{ID: "a", OrderIndex: 0},
		{ID: "c", OrderIndex: 10},
		{ID: "b", OrderIndex: 5},
	}
	res = Resolve(&gapped[0], nil, gapped, nil, logger)
	if res.NextBlockID != "b" {
		t.Errorf("Expected b (order 5), got %+v", res)
	}
}

func TestResolve_LastBlockCompletes(t *testing.T) {
	logger := logging.NewNop()
	blocks := surveyBlocks()

	res := Resolve(&blocks[2], nil, blocks, nil, logger)
	if !res.Completed {
		t.Errorf("Expected completion past the last block, got %+v", res)
	}
}

func TestResolve_SelfLoopGuard(t *testing.T) {
	logger := logging.NewNop()
	blocks := surveyBlocks()

	t.Run("Rule Target", func(t *testing.T) {
		conns := []domain.Connection{{
			SourceID: "name",
			Rules: []domain.Rule{{
				TargetBlockID: "name",
				Conditions: domain.ConditionGroup{Conditions: []domain.Condition{
					cond("name", domain.OpEquals, "skip"),
				}},
			}},
			DefaultTargetID: "role",
		}}
		res := Resolve(&blocks[0], conns, blocks, map[string]any{"name": "skip"}, logger)
		if res.NextBlockID != "role" {
			t.Errorf("Self-loop rule must fall through to default, got %+v", res)
		}
	})

	t.Run("Default Target", func(t *testing.T) {
		conns := []domain.Connection{{SourceID: "name", DefaultTargetID: "name"}}
		res := Resolve(&blocks[0], conns, blocks, nil, logger)
		if res.NextBlockID != "role" {
			t.Errorf("Self-loop default must fall through to sequential flow, got %+v", res)
		}
	})
}

func TestResolve_ForeignSourceIgnored(t *testing.T) {
	logger := logging.NewNop()
	blocks := surveyBlocks()
	conns := []domain.Connection{{SourceID: "role", DefaultTargetID: "thanks"}}

	// A connection belonging to another block never routes for this one.
	res := Resolve(&blocks[0], conns, blocks, nil, logger)
	if res.NextBlockID != "role" {
		t.Errorf("Expected sequential next role, got %+v", res)
	}
}

func TestResolve_MultipleConnectionsByOrderIndex(t *testing.T) {
	logger := logging.NewNop()
	blocks := surveyBlocks()
	conns := []domain.Connection{
		{SourceID: "name", DefaultTargetID: "thanks", OrderIndex: 1},
		{SourceID: "name", DefaultTargetID: "role", OrderIndex: 0},
	}

	res := Resolve(&blocks[0], conns, blocks, nil, logger)
	if res.NextBlockID != "role" {
		t.Errorf("Expected lowest order index connection to win, got %+v", res)
	}
}

func TestResolve_EmptyRuleTargetSkipped(t *testing.T) {
	logger := logging.NewNop()
	blocks := surveyBlocks()
	conns := []domain.Connection{{
		SourceID: "name",
		Rules: []domain.Rule{{
			TargetBlockID: "",
			Conditions: domain.ConditionGroup{Conditions: []domain.Condition{
				cond("name", domain.OpEquals, "skip"),
			}},
		}},
		DefaultTargetID: "thanks",
	}}

	res := Resolve(&blocks[0], conns, blocks, map[string]any{"name": "skip"}, logger)
	if res.NextBlockID != "thanks" {
		t.Errorf("Matching rule without target must fall through, got %+v", res)
	}
}
