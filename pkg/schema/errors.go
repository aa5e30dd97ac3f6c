package schema

import (
	"fmt"
	"strings"

	"github.com/flowform/engine/pkg/domain"
)

// ValidationError represents a single answer validation failure.
type ValidationError struct {
	BlockID string // Block whose answer failed
	Reason  string // Human-readable reason for failure
	Value   any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("block %q: %s", e.BlockID, e.Reason)
	}
	return fmt.Sprintf("block %q: %s (got %T)", e.BlockID, e.Reason, e.Value)
}

// Unwrap lets errors.Is match the domain sentinel, so transports map
// validation failures to client errors.
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidAnswer
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the wrapped errors for errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
