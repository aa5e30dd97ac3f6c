package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowform/engine/pkg/adapters/file"
	"github.com/flowform/engine/pkg/domain"
)

const surveyYAML = `
id: onboarding
title: Onboarding Survey
blocks:
  - id: role
    type: static
    subtype: multiple_choice
    order: 1
    title: What is your role?
    settings:
      options:
        - engineer
        - designer
  - id: welcome
    type: static
    subtype: short_text
    order: 0
    title: Welcome! What is your name?
  - id: interview
    type: dynamic
    subtype: conversation
    order: 2
    title: Tell us about your work
    settings:
      starter_prompt: What does a typical day look like?
      max_questions: 3
      temperature: 0.4
connections:
  - id: c1
    source: role
    explicit: true
    default_target: interview
    rules:
      - id: r1
        target: welcome
        conditions:
          - field: role
            operator: equals
            value: designer
            logical_operator: or
          - field: role
            operator: equals
            value: engineer
`

func writeFormFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullDocument(t *testing.T) {
	provider := file.NewProvider()

	formID, err := provider.Load(writeFormFile(t, surveyYAML))
	require.NoError(t, err)
	assert.Equal(t, "onboarding", formID)
	assert.Equal(t, "Onboarding Survey", provider.Title(formID))
	assert.Equal(t, []string{"onboarding"}, provider.FormIDs())

	blocks, err := provider.Blocks(context.Background(), formID)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	// Sorted by order, not file position.
	assert.Equal(t, "welcome", blocks[0].ID)
	assert.Equal(t, "role", blocks[1].ID)
	assert.Equal(t, "interview", blocks[2].ID)

	role := blocks[1]
	assert.Equal(t, domain.SubtypeMultipleChoice, role.Subtype)
	assert.Equal(t, []string{"engineer", "designer"}, role.Settings.Options)

	interview := blocks[2]
	assert.True(t, interview.IsDynamic())
	assert.Equal(t, "What does a typical day look like?", interview.StarterPrompt())
	assert.Equal(t, 3, interview.MaxQuestions())
	assert.InDelta(t, 0.4, interview.Settings.Temperature, 0.001)
}

func TestLoad_Connections(t *testing.T) {
	provider := file.NewProvider()
	formID, err := provider.Load(writeFormFile(t, surveyYAML))
	require.NoError(t, err)

	conns, err := provider.OutgoingConnections(context.Background(), formID, "role")
	require.NoError(t, err)
	require.Len(t, conns, 1)

	conn := conns[0]
	assert.True(t, conn.IsExplicit)
	assert.Equal(t, "interview", conn.DefaultTargetID)
	require.Len(t, conn.Rules, 1)

	rule := conn.Rules[0]
	assert.Equal(t, "welcome", rule.TargetBlockID)
	require.Len(t, rule.Conditions.Conditions, 2)
	assert.Equal(t, domain.OpEquals, rule.Conditions.Conditions[0].Operator)
	assert.Equal(t, domain.LogicalOr, rule.Conditions.Conditions[0].LogicalOperator)

	// Blocks with no outgoing edges return an empty slice.
	conns, err = provider.OutgoingConnections(context.Background(), formID, "welcome")
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestLoad_DefaultsAndErrors(t *testing.T) {
	t.Run("Missing Type Defaults To Static", func(t *testing.T) {
		provider := file.NewProvider()
		formID, err := provider.Load(writeFormFile(t, `
id: minimal
blocks:
  - id: only
    title: Just this
`))
		require.NoError(t, err)

		blocks, err := provider.Blocks(context.Background(), formID)
		require.NoError(t, err)
		assert.Equal(t, domain.BlockStatic, blocks[0].Type)
		assert.Equal(t, domain.SubtypeUnknown, blocks[0].Subtype)
	})

	t.Run("Missing Form ID", func(t *testing.T) {
		provider := file.NewProvider()
		_, err := provider.Load(writeFormFile(t, "title: No ID\n"))
		assert.ErrorContains(t, err, "no id")
	})

	t.Run("Missing Block ID", func(t *testing.T) {
		provider := file.NewProvider()
		_, err := provider.Load(writeFormFile(t, `
id: broken
blocks:
  - title: Who am I?
`))
		assert.ErrorContains(t, err, "has no id")
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		provider := file.NewProvider()
		_, err := provider.Load(writeFormFile(t, "id: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("Missing File", func(t *testing.T) {
		provider := file.NewProvider()
		_, err := provider.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Unknown Form", func(t *testing.T) {
		provider := file.NewProvider()
		_, err := provider.Blocks(context.Background(), "ghost")
		assert.ErrorIs(t, err, domain.ErrFormNotFound)
	})
}
