package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/adapters/file"
	mcpadapter "github.com/flowform/engine/pkg/adapters/mcp"
)

// MCPOptions contains all the configuration for the mcp command.
type MCPOptions struct {
	EngineOptions

	FormPath  string
	Transport string // "stdio" or "sse"
	Port      int
}

// MCP starts the MCP server over the requested transport.
func MCP(opts MCPOptions) error {
	// Stdio transport owns stdout, so logs always go to stderr.
	logger := logging.New(slog.LevelInfo)
	if opts.Debug {
		logger = logging.New(slog.LevelDebug)
	}

	forms := file.NewProvider()
	if _, err := forms.Load(opts.FormPath); err != nil {
		return fmt.Errorf("error loading form: %w", err)
	}

	engine, err := createEngine(opts.EngineOptions, forms, logger)
	if err != nil {
		return err
	}

	srv := mcpadapter.NewServer(engine, mcpadapter.WithLogger(logger))

	switch opts.Transport {
	case "sse":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.ServeSSE(ctx, opts.Port)
	case "stdio", "":
		return srv.ServeStdio()
	default:
		return fmt.Errorf("unknown transport %q (want stdio or sse)", opts.Transport)
	}
}
