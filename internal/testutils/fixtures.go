package testutils

import (
	"github.com/flowform/engine/pkg/adapters/memory"
	"github.com/flowform/engine/pkg/domain"
)

// SurveyFormID is the form ID registered by NewSurveyProvider.
const SurveyFormID = "survey"

// NewSurveyProvider builds a small static survey with one conditional branch:
//
//	name --(equals "skip")--> thanks
//	     --(default)--------> role --> thanks
//
// It is the shared fixture for routing tests.
func NewSurveyProvider() *memory.FormProvider {
	blocks := []domain.Block{
		{ID: "name", Type: domain.BlockStatic, Subtype: domain.SubtypeShortText, Title: "What is your name?", OrderIndex: 0},
		{ID: "role", Type: domain.BlockStatic, Subtype: domain.SubtypeMultipleChoice, Title: "What is your role?", Settings: domain.BlockSettings{Options: []string{"engineer", "designer"}}, OrderIndex: 1},
		{ID: "thanks", Type: domain.BlockStatic, Subtype: domain.SubtypeShortText, Title: "Any final words?", OrderIndex: 2},
	}
	connections := []domain.Connection{
		{
			ID:       "c1",
			SourceID: "name",
			Rules: []domain.Rule{{
				ID:            "r1",
				TargetBlockID: "thanks",
				Conditions: domain.ConditionGroup{Conditions: []domain.Condition{
					{ID: "cond1", Field: "name", Operator: domain.OpEquals, Value: "skip"},
				}},
			}},
			DefaultTargetID: "role",
			IsExplicit:      true,
		},
	}

	provider := memory.NewFormProvider()
	provider.AddForm(SurveyFormID, blocks, connections)
	return provider
}

// InterviewFormID is the form ID registered by NewInterviewProvider.
const InterviewFormID = "interview"

// NewInterviewProvider builds a form with a dynamic conversation block in the
// middle: intro -> chat (dynamic, max questions) -> end.
func NewInterviewProvider(maxQuestions int) *memory.FormProvider {
	blocks := []domain.Block{
		{ID: "intro", Type: domain.BlockStatic, Subtype: domain.SubtypeShortText, Title: "What brings you here?", OrderIndex: 0},
		{
			ID:      "chat",
			Type:    domain.BlockDynamic,
			Subtype: domain.SubtypeConversation,
			Title:   "Tell us more",
			Settings: domain.BlockSettings{
				StarterPrompt: "What was the hardest part?",
				MaxQuestions:  maxQuestions,
			},
			OrderIndex: 1,
		},
		{ID: "end", Type: domain.BlockStatic, Subtype: domain.SubtypeShortText, Title: "Thanks!", OrderIndex: 2},
	}

	provider := memory.NewFormProvider()
	provider.AddForm(InterviewFormID, blocks, nil)
	return provider
}
