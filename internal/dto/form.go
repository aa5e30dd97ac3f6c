package dto

import (
	"fmt"

	"github.com/flowform/engine/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// FormDocument is the decode target for form definition files. It uses
// "mapstructure" tags so the same shape works for YAML documents and for
// loosely-typed maps coming from other front ends.
type FormDocument struct {
	ID     string          `json:"id" mapstructure:"id"`
	Title  string          `json:"title" mapstructure:"title"`
	Blocks []BlockDocument `json:"blocks" mapstructure:"blocks"`

	Connections []ConnectionDocument `json:"connections" mapstructure:"connections"`
}

type BlockDocument struct {
	ID          string         `json:"id" mapstructure:"id"`
	Type        string         `json:"type" mapstructure:"type"`
	Subtype     string         `json:"subtype" mapstructure:"subtype"`
	Order       int            `json:"order" mapstructure:"order"`
	Title       string         `json:"title" mapstructure:"title"`
	Description string         `json:"description" mapstructure:"description"`
	Required    bool           `json:"required" mapstructure:"required"`
	Settings    map[string]any `json:"settings" mapstructure:"settings"`
}

type ConnectionDocument struct {
	ID            string         `json:"id" mapstructure:"id"`
	Source        string         `json:"source" mapstructure:"source"`
	DefaultTarget string         `json:"default_target" mapstructure:"default_target"`
	Explicit      bool           `json:"explicit" mapstructure:"explicit"`
	Order         int            `json:"order" mapstructure:"order"`
	Rules         []RuleDocument `json:"rules" mapstructure:"rules"`
}

type RuleDocument struct {
	ID         string              `json:"id" mapstructure:"id"`
	Target     string              `json:"target" mapstructure:"target"`
	Operator   string              `json:"operator" mapstructure:"operator"` // legacy group-level combinator
	Conditions []ConditionDocument `json:"conditions" mapstructure:"conditions"`
}

type ConditionDocument struct {
	ID              string `json:"id" mapstructure:"id"`
	Field           string `json:"field" mapstructure:"field"`
	Operator        string `json:"operator" mapstructure:"operator"`
	Value           any    `json:"value" mapstructure:"value"`
	LogicalOperator string `json:"logical_operator" mapstructure:"logical_operator"`
}

// BlockSettingsDocument mirrors domain.BlockSettings for mapstructure decoding
// of the free-form settings map.
type BlockSettingsDocument struct {
	StarterPrompt string   `mapstructure:"starter_prompt"`
	MaxQuestions  int      `mapstructure:"max_questions"`
	Temperature   float64  `mapstructure:"temperature"`
	Options       []string `mapstructure:"options"`
	Placeholder   string   `mapstructure:"placeholder"`
}

// ToDomain converts the decoded document into domain entities.
func (d *FormDocument) ToDomain() ([]domain.Block, []domain.Connection, error) {
	blocks := make([]domain.Block, 0, len(d.Blocks))
	for i, bd := range d.Blocks {
		if bd.ID == "" {
			return nil, nil, fmt.Errorf("block at position %d has no id", i)
		}
		blockType := bd.Type
		if blockType == "" {
			blockType = domain.BlockStatic
		}

		var settings BlockSettingsDocument
		if bd.Settings != nil {
			if err := mapstructure.WeakDecode(bd.Settings, &settings); err != nil {
				return nil, nil, fmt.Errorf("block %s has invalid settings: %w", bd.ID, err)
			}
		}

		blocks = append(blocks, domain.Block{
			ID:          bd.ID,
			Type:        blockType,
			Subtype:     domain.ParseSubtype(bd.Subtype),
			OrderIndex:  bd.Order,
			Title:       bd.Title,
			Description: bd.Description,
			Required:    bd.Required,
			Settings: domain.BlockSettings{
				StarterPrompt: settings.StarterPrompt,
				MaxQuestions:  settings.MaxQuestions,
				Temperature:   settings.Temperature,
				Options:       settings.Options,
				Placeholder:   settings.Placeholder,
			},
		})
	}

	conns := make([]domain.Connection, 0, len(d.Connections))
	for i, cd := range d.Connections {
		if cd.Source == "" {
			return nil, nil, fmt.Errorf("connection at position %d has no source", i)
		}
		conn := domain.Connection{
			ID:              cd.ID,
			SourceID:        cd.Source,
			DefaultTargetID: cd.DefaultTarget,
			IsExplicit:      cd.Explicit,
			OrderIndex:      cd.Order,
		}
		for _, rd := range cd.Rules {
			rule := domain.Rule{
				ID:            rd.ID,
				TargetBlockID: rd.Target,
				Conditions: domain.ConditionGroup{
					Operator: domain.LogicalOperator(rd.Operator),
				},
			}
			for _, cond := range rd.Conditions {
				rule.Conditions.Conditions = append(rule.Conditions.Conditions, domain.Condition{
					ID:              cond.ID,
					Field:           cond.Field,
					Operator:        domain.Operator(cond.Operator),
					Value:           cond.Value,
					LogicalOperator: domain.LogicalOperator(cond.LogicalOperator),
				})
			}
			conn.Rules = append(conn.Rules, rule)
		}
		conns = append(conns, conn)
	}

	return blocks, conns, nil
}
