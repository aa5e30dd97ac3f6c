package flowform

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/flowform/engine/pkg/domain"
)

// Runner drives a respondent session over the provided IO.
// This allows for easy testing and integration with different frontends
// (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms block content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. The caller must set Input and Output
// (typically os.Stdin and os.Stdout).
func NewRunner() *Runner {
	return &Runner{}
}

// Run fills out one form interactively until completion.
func (r *Runner) Run(engine *Engine, formID, responseID string) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	ctx := context.Background()

	_, block, err := engine.Start(ctx, formID, responseID)
	if err != nil {
		return fmt.Errorf("failed to start response: %w", err)
	}

	for {
		// 1. Render phase: the block's prompt, or the open follow-up question.
		question := r.blockPrompt(block)
		firstQuestion := true
		questionIndex := 0

		for {
			r.print(question)

			// 2. Input phase.
			answer, quit, err := r.readLine(lineReader)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

			// 3. Submit phase.
			res, err := engine.Submit(ctx, domain.SubmitRequest{
				ResponseID:          responseID,
				BlockID:             block.ID,
				Answer:              answer,
				ActiveQuestionIndex: questionIndex,
				IsFirstQuestion:     firstQuestion,
			})
			if err != nil {
				return fmt.Errorf("submission error: %w", err)
			}
			firstQuestion = false

			if res.Message != "" {
				fmt.Fprintln(r.Output, res.Message)
			}
			if res.NextQuestion != "" {
				question = res.NextQuestion
				if res.Conversation != nil {
					questionIndex = res.Conversation.ActiveQuestionIndex
				} else {
					questionIndex++
				}
				continue
			}
			if res.Completed {
				if !r.Headless {
					fmt.Fprintln(r.Output, "Thanks, your response is complete.")
				}
				return nil
			}
			block = res.NextBlock
			break
		}
	}
}

// blockPrompt renders what the respondent sees on block entry. Dynamic blocks
// open with their starter question; static blocks show title and description.
func (r *Runner) blockPrompt(block *domain.Block) string {
	if block.IsDynamic() {
		return block.StarterPrompt()
	}
	if block.Description != "" {
		return block.Title + "\n\n" + block.Description
	}
	return block.Title
}

func (r *Runner) print(content string) {
	output := content
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}

// readLine reads one answer. Returns quit=true on EOF or an explicit
// exit/quit command.
func (r *Runner) readLine(reader *bufio.Reader) (string, bool, error) {
	if !r.Headless {
		fmt.Fprint(r.Output, "> ")
	}
	text, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", true, nil
		}
		return "", false, fmt.Errorf("input error: %w", err)
	}
	answer := strings.TrimSpace(text)
	if answer == "exit" || answer == "quit" {
		if !r.Headless {
			fmt.Fprintln(r.Output, "Bye!")
		}
		return "", true, nil
	}
	return answer, false, nil
}
