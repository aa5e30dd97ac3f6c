package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	flowform "github.com/flowform/engine"
	"github.com/flowform/engine/internal/logging"
	httpadapter "github.com/flowform/engine/pkg/adapters/http"
	"github.com/flowform/engine/pkg/adapters/file"
	"github.com/flowform/engine/pkg/observability"
)

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	EngineOptions

	FormPath string
	Port     string
}

// Serve starts the HTTP server and blocks until SIGINT/SIGTERM.
func Serve(opts ServeOptions) error {
	logger := logging.New(slog.LevelInfo)
	if opts.Debug {
		logger = logging.New(slog.LevelDebug)
	}

	forms := file.NewProvider()
	formID, err := forms.Load(opts.FormPath)
	if err != nil {
		return fmt.Errorf("error loading form: %w", err)
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer, observability.WithLogger(logger))

	engine, err := createEngine(opts.EngineOptions, forms, logger,
		flowform.WithLifecycleHooks(metrics.Hooks()),
	)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httpadapter.NewHandler(engine, httpadapter.WithLogger(logger)))

	srv := &http.Server{
		Addr:    ":" + opts.Port,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "form_id", formID)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("starting shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete, forcing close", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("server stopped gracefully")
		return nil
	}
}
