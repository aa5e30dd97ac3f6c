package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	flowform "github.com/flowform/engine"
	"github.com/flowform/engine/internal/presentation/tui"
	"github.com/flowform/engine/pkg/adapters/file"
)

// FillOptions contains all the configuration for the fill command.
type FillOptions struct {
	EngineOptions

	FormPath   string
	FormID     string
	ResponseID string
	Headless   bool
}

// Fill runs an interactive respondent session on the terminal.
func Fill(opts FillOptions) error {
	logger := createLogger(opts.Debug)

	forms := file.NewProvider()
	formID, err := forms.Load(opts.FormPath)
	if err != nil {
		return fmt.Errorf("error loading form: %w", err)
	}
	if opts.FormID != "" {
		formID = opts.FormID
	}

	engine, err := createEngine(opts.EngineOptions, forms, logger)
	if err != nil {
		return err
	}

	responseID := opts.ResponseID
	if responseID == "" {
		responseID = uuid.NewString()
	}

	interactive := !opts.Headless && isTerminal()
	if interactive {
		tui.PrintBanner(flowform.Version)
		printSystemMessage("Filling '%s' (response %s)", forms.Title(formID), responseID)
	}

	runner := flowform.NewRunner()
	runner.Input = os.Stdin
	runner.Output = os.Stdout
	runner.Headless = opts.Headless
	if interactive {
		runner.Renderer = tui.NewRenderer()
	}

	return runner.Run(engine, formID, responseID)
}
