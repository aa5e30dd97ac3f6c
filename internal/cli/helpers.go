package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
)

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout flow UI).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// isTerminal reports whether stdout is an interactive TTY. Piped output gets
// plain text instead of the banner and markdown rendering.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBlockEnter: func(ctx context.Context, e *domain.BlockEvent) {
			logger.Debug("Enter Block", "block_id", e.BlockID, "type", e.BlockType)
		},
		OnBlockLeave: func(ctx context.Context, e *domain.BlockEvent) {
			logger.Debug("Leave Block", "block_id", e.BlockID)
		},
		OnGeneration: func(ctx context.Context, e *domain.GenerationEvent) {
			logger.Debug("Generated Follow-up",
				"block_id", e.BlockID,
				"question_index", e.QuestionIndex,
				"duration_ms", e.Duration.Milliseconds(),
				"fallback", e.Fallback,
			)
		},
		OnFormComplete: func(ctx context.Context, e *domain.BlockEvent) {
			logger.Debug("Form Complete", "block_id", e.BlockID)
		},
	}
}
