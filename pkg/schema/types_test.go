package schema

import (
	"errors"
	"testing"

	"github.com/flowform/engine/pkg/domain"
)

func TestTextValidator(t *testing.T) {
	v := &TextValidator{}
	if err := v.Validate("hello"); err != nil {
		t.Fatalf("string rejected: %v", err)
	}
	if err := v.Validate(42); err == nil {
		t.Fatal("expected error for non-string")
	}
}

func TestNumberValidator(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"int", 42, false},
		{"float", 3.14, false},
		{"numeric string", "42", false},
		{"float string", " 3.5 ", false},
		{"negative string", "-7", false},
		{"text", "abc", true},
		{"trailing garbage", "12abc", true},
		{"empty string", "", true},
		{"bool", true, true},
	}
	v := &NumberValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) err = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestEmailValidator(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"ana@example.com", false},
		{"a.b+tag@sub.example.org", false},
		{"no-at-sign", true},
		{"@example.com", true},
		{"user@", true},
		{"user@nodot", true},
	}
	v := &EmailValidator{}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := v.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) err = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}

	if err := v.Validate(5); err == nil {
		t.Fatal("expected error for non-string")
	}
}

func TestRatingValidator(t *testing.T) {
	v := &RatingValidator{Min: 1, Max: 5}

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"in range", 3, false},
		{"min boundary", 1, false},
		{"max boundary", 5, false},
		{"numeric string", "4", false},
		{"below", 0, true},
		{"above", 6, true},
		{"not a number", "great", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) err = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestChoiceValidator(t *testing.T) {
	v := &ChoiceValidator{Options: []string{"red", "green", "blue"}}

	if err := v.Validate("green"); err != nil {
		t.Fatalf("valid option rejected: %v", err)
	}
	if err := v.Validate("purple"); err == nil {
		t.Fatal("expected error for unknown option")
	}
	if err := v.Validate(7); err == nil {
		t.Fatal("expected error for non-string")
	}

	// No options configured means any string passes.
	open := &ChoiceValidator{}
	if err := open.Validate("anything"); err != nil {
		t.Fatalf("open choice rejected: %v", err)
	}
}

func TestMultiChoiceValidator(t *testing.T) {
	v := &MultiChoiceValidator{Options: []string{"go", "rust", "zig"}}

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"string slice", []string{"go", "zig"}, false},
		{"any slice", []any{"rust"}, false},
		{"single string", "go", false},
		{"unknown element", []string{"go", "java"}, true},
		{"non-string element", []any{"go", 3}, true},
		{"not a list", 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) err = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestCustomValidator(t *testing.T) {
	v := Custom("even", func(value any) error {
		n, ok := value.(int)
		if !ok || n%2 != 0 {
			return errors.New("not even")
		}
		return nil
	})

	if got := v.Name(); got != "even" {
		t.Fatalf("Name() = %q", got)
	}
	if err := v.Validate(4); err != nil {
		t.Fatalf("even rejected: %v", err)
	}
	if err := v.Validate(3); err == nil {
		t.Fatal("expected error for odd")
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := &ValidationError{BlockID: "b1", Reason: "bad", Value: 42}
	if !errors.Is(err, domain.ErrInvalidAnswer) {
		t.Fatal("ValidationError should match domain.ErrInvalidAnswer")
	}
	if msg := err.Error(); msg == "" {
		t.Fatal("empty error message")
	}
}
