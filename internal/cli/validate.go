package cli

import (
	"context"
	"fmt"

	"github.com/flowform/engine/pkg/adapters/file"
	"github.com/flowform/engine/pkg/domain"
)

// Validate loads a form definition and prints its validation findings.
// It returns an error when the form has findings of error severity, so CI
// pipelines can gate on it.
func Validate(formPath string) error {
	logger := createLogger(false)

	forms := file.NewProvider()
	formID, err := forms.Load(formPath)
	if err != nil {
		return fmt.Errorf("error loading form: %w", err)
	}

	engine, err := createEngine(EngineOptions{}, forms, logger)
	if err != nil {
		return err
	}

	issues, err := engine.Validate(context.Background(), formID)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if len(issues) == 0 {
		printSystemMessage("Form '%s' is valid.", forms.Title(formID))
		return nil
	}

	hasErrors := false
	for _, issue := range issues {
		fmt.Println(issue.String())
		if issue.Severity == domain.SeverityError {
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("form has validation errors")
	}
	return nil
}
