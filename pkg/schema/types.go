package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Validator defines the contract for answer validation.
// Implementations determine what values a block subtype accepts.
type Validator interface {
	// Name returns the human-readable name of the validator (e.g. "email").
	Name() string
	// Validate checks if an answer conforms to this validator.
	Validate(value any) error
}

// --- Built-in validator implementations ---

// TextValidator accepts any string.
type TextValidator struct{}

func (v *TextValidator) Name() string { return "text" }

func (v *TextValidator) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected text, got %T", value)
	}
	return nil
}

// NumberValidator accepts numeric values, including numeric strings as they
// arrive from text front ends.
type NumberValidator struct{}

func (v *NumberValidator) Name() string { return "number" }

func (v *NumberValidator) Validate(value any) error {
	switch t := value.(type) {
	case int, int8, int16, int32, int64, float32, float64:
		return nil
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return fmt.Errorf("expected a number, got empty text")
		}
		if _, err := parseNumber(trimmed); err != nil {
			return fmt.Errorf("expected a number, got %q", t)
		}
		return nil
	default:
		return fmt.Errorf("expected a number, got %T", value)
	}
}

// EmailValidator accepts strings that look like an email address. It checks
// shape only; deliverability is the form owner's problem.
type EmailValidator struct{}

func (v *EmailValidator) Name() string { return "email" }

func (v *EmailValidator) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected an email address, got %T", value)
	}
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 || !strings.Contains(s[at+1:], ".") {
		return fmt.Errorf("%q is not a valid email address", s)
	}
	return nil
}

// RatingValidator accepts numbers within an inclusive range.
type RatingValidator struct {
	Min, Max float64
}

func (v *RatingValidator) Name() string { return "rating" }

func (v *RatingValidator) Validate(value any) error {
	n, err := toNumber(value)
	if err != nil {
		return fmt.Errorf("expected a rating, got %T", value)
	}
	if n < v.Min || n > v.Max {
		return fmt.Errorf("rating %v is outside %v..%v", n, v.Min, v.Max)
	}
	return nil
}

// ChoiceValidator accepts a single value drawn from the block's options.
// With no options configured, any string passes.
type ChoiceValidator struct {
	Options []string
}

func (v *ChoiceValidator) Name() string { return "multiple_choice" }

func (v *ChoiceValidator) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected a choice, got %T", value)
	}
	if len(v.Options) == 0 {
		return nil
	}
	for _, opt := range v.Options {
		if s == opt {
			return nil
		}
	}
	return fmt.Errorf("%q is not one of the options", s)
}

// MultiChoiceValidator accepts a list of values drawn from the options.
// A single string is accepted as a one-element selection.
type MultiChoiceValidator struct {
	Options []string
}

func (v *MultiChoiceValidator) Name() string { return "checkbox" }

func (v *MultiChoiceValidator) Validate(value any) error {
	single := ChoiceValidator{Options: v.Options}

	if s, ok := value.(string); ok {
		return single.Validate(s)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected a selection list, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := single.Validate(elem); err != nil {
			return fmt.Errorf("selection %d: %w", i, err)
		}
	}
	return nil
}

// AnyValidator accepts everything. Used for subtypes without constraints.
type AnyValidator struct{}

func (v *AnyValidator) Name() string { return "any" }

func (v *AnyValidator) Validate(value any) error { return nil }

// CustomValidator applies a user-defined validation function.
type CustomValidator struct {
	name     string
	validate func(any) error
}

func (v *CustomValidator) Name() string { return v.name }

func (v *CustomValidator) Validate(value any) error {
	return v.validate(value)
}

// Custom creates a validator with a user-defined function.
func Custom(name string, validate func(any) error) Validator {
	return &CustomValidator{name: name, validate: validate}
}

// --- helpers ---

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func toNumber(value any) (float64, error) {
	switch t := value.(type) {
	case int:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		return parseNumber(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("not a number: %T", value)
	}
}
