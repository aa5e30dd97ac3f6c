package runtime

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/flowform/engine/pkg/domain"
)

// EvaluateRule reports whether a rule matches the accumulated answers.
//
// Conditions are folded strictly left to right: the logical operator stored
// on a condition joins it with the condition that FOLLOWS it. AND
// short-circuits on false, OR short-circuits on true. There is no grouping;
// this intentionally preserves the builder's flat chaining semantics even for
// 3+ conditions with mixed operators.
//
// A rule with zero conditions never matches. Malformed conditions evaluate to
// false and are logged; evaluation never panics, so form navigation cannot
// get stuck on bad author input.
func EvaluateRule(rule domain.Rule, answers map[string]any, logger *slog.Logger) bool {
	conds := rule.Conditions.Conditions
	if len(conds) == 0 {
		return false
	}

	result := evaluateCondition(conds[0], answers, logger)
	for i := 1; i < len(conds); i++ {
		// The join operator lives on the previous condition.
		switch conds[i-1].LogicalOperator {
		case domain.LogicalOr:
			if result {
				return true
			}
		default:
			// AND is the historical default when the operator is unset.
			if !result {
				return false
			}
		}
		result = evaluateCondition(conds[i], answers, logger)
	}
	return result
}

func evaluateCondition(cond domain.Condition, answers map[string]any, logger *slog.Logger) bool {
	if cond.Field == "" || cond.Operator == "" {
		logger.Warn("skipping malformed condition",
			"condition_id", cond.ID,
			"field", cond.Field,
			"operator", string(cond.Operator))
		return false
	}

	answer, answered := answers[cond.Field]
	if !answered {
		// An unanswered field fails every operator except not_equals.
		// This asymmetry drives default-branch fallback for blocks the
		// respondent has not reached yet.
		return cond.Operator == domain.OpNotEquals
	}

	switch cond.Operator {
	case domain.OpEquals:
		return coerceString(answer) == coerceString(cond.Value)
	case domain.OpNotEquals:
		return coerceString(answer) != coerceString(cond.Value)
	case domain.OpContains:
		return strings.Contains(coerceString(answer), coerceString(cond.Value))
	case domain.OpNotContains:
		return !strings.Contains(coerceString(answer), coerceString(cond.Value))
	case domain.OpGreaterThan:
		a, aok := toFloat(answer)
		b, bok := toFloat(cond.Value)
		return aok && bok && a > b
	case domain.OpLessThan:
		a, aok := toFloat(answer)
		b, bok := toFloat(cond.Value)
		return aok && bok && a < b
	case domain.OpBetween:
		lo, hi, ok := betweenBounds(cond.Value)
		if !ok {
			logger.Warn("between condition requires a two-element value", "condition_id", cond.ID)
			return false
		}
		a, aok := toFloat(answer)
		return aok && a >= lo && a <= hi
	default:
		logger.Warn("unknown condition operator", "condition_id", cond.ID, "operator", string(cond.Operator))
		return false
	}
}

// coerceString normalizes mixed-type comparisons: equals/not_equals compare
// after coercion to string when types differ.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		// Last resort for decoded YAML/JSON oddities.
		return fmt.Sprintf("%v", t)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// betweenBounds extracts the [low, high] pair of a between condition.
func betweenBounds(v any) (float64, float64, bool) {
	var elems []any
	switch t := v.(type) {
	case []any:
		elems = t
	case []string:
		elems = make([]any, len(t))
		for i, s := range t {
			elems[i] = s
		}
	case []float64:
		elems = make([]any, len(t))
		for i, f := range t {
			elems[i] = f
		}
	default:
		return 0, 0, false
	}
	if len(elems) != 2 {
		return 0, 0, false
	}
	lo, ok1 := toFloat(elems[0])
	hi, ok2 := toFloat(elems[1])
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}
