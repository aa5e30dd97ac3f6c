package dsl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowform/engine/pkg/domain"
)

func TestBuild_EmptyForm(t *testing.T) {
	_, err := New("empty").Build()
	require.Error(t, err)
}

func TestBuild_OrderFollowsDeclaration(t *testing.T) {
	forms, err := New("f").
		Static("a").Title("A").Done().
		Static("b").Title("B").Done().
		Dynamic("c").Starter("C?").Done().
		Build()
	require.NoError(t, err)

	blocks, err := forms.Blocks(context.Background(), "f")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "a", blocks[0].ID)
	assert.Equal(t, 1, blocks[1].OrderIndex)
	assert.True(t, blocks[2].IsDynamic())
	assert.Equal(t, "C?", blocks[2].StarterPrompt())
}

func TestBuild_DuplicateIDReturnsSameBuilder(t *testing.T) {
	b := New("f")
	first := b.Static("a")
	second := b.Static("a")
	assert.Same(t, first, second)
}

func TestBranchAndDefault(t *testing.T) {
	forms, err := New("f").
		Static("role").Title("Role?").
		Branch("eng").When("role", domain.OpEquals, "engineer").End().
		Branch("mgr").When("role", domain.OpEquals, "manager").Or("role", domain.OpEquals, "lead").End().
		Go("end").
		Done().
		Static("eng").Title("Eng").Done().
		Static("mgr").Title("Mgr").Done().
		Static("end").Title("End").Done().
		Build()
	require.NoError(t, err)

	conns, err := forms.OutgoingConnections(context.Background(), "f", "role")
	require.NoError(t, err)
	require.Len(t, conns, 1)

	conn := conns[0]
	assert.Equal(t, "end", conn.DefaultTargetID)
	assert.True(t, conn.IsExplicit)
	require.Len(t, conn.Rules, 2)
	assert.Equal(t, "eng", conn.Rules[0].TargetBlockID)

	// The OR join lives on the condition before it.
	orRule := conn.Rules[1]
	require.Len(t, orRule.Conditions.Conditions, 2)
	assert.Equal(t, domain.LogicalOr, orRule.Conditions.Conditions[0].LogicalOperator)
	assert.Empty(t, orRule.Conditions.Conditions[1].LogicalOperator)
}
