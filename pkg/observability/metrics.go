package observability

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by the engine's lifecycle hooks.
type Metrics struct {
	blockVisits        *prometheus.CounterVec
	formCompletions    *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	generationFallback prometheus.Counter

	logger *slog.Logger
}

// Option configures Metrics.
type Option func(*Metrics)

// WithLogger also logs each lifecycle event at info level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Metrics) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMetrics creates the collectors and registers them on the given registerer.
// Pass prometheus.DefaultRegisterer for the usual global registry.
func NewMetrics(reg prometheus.Registerer, opts ...Option) *Metrics {
	m := &Metrics{
		blockVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowform_block_visits_total",
				Help: "Total number of block entries",
			},
			[]string{"block_id", "block_type"},
		),
		formCompletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowform_form_completions_total",
				Help: "Total number of completed responses",
			},
			[]string{"block_id"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowform_generation_duration_seconds",
				Help:    "Duration of follow-up question generations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"block_id"},
		),
		generationFallback: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "flowform_generation_fallbacks_total",
				Help: "Total number of conversations force-completed after a generation failure",
			},
		),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	reg.MustRegister(m.blockVisits, m.formCompletions, m.generationDuration, m.generationFallback)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Attach them via
// flowform.WithLifecycleHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBlockEnter: func(ctx context.Context, e *domain.BlockEvent) {
			m.blockVisits.WithLabelValues(e.BlockID, e.BlockType).Inc()
			m.logger.Info("block_enter",
				"response_id", e.ResponseID,
				"block_id", e.BlockID,
				"block_type", e.BlockType,
			)
		},
		OnBlockLeave: func(ctx context.Context, e *domain.BlockEvent) {
			m.logger.Info("block_leave",
				"response_id", e.ResponseID,
				"block_id", e.BlockID,
			)
		},
		OnGeneration: func(ctx context.Context, e *domain.GenerationEvent) {
			m.generationDuration.WithLabelValues(e.BlockID).Observe(e.Duration.Seconds())
			if e.Fallback {
				m.generationFallback.Inc()
			}
			m.logger.Info("generation",
				"response_id", e.ResponseID,
				"block_id", e.BlockID,
				"question_index", e.QuestionIndex,
				"duration_ms", e.Duration.Milliseconds(),
				"fallback", e.Fallback,
			)
		},
		OnFormComplete: func(ctx context.Context, e *domain.BlockEvent) {
			m.formCompletions.WithLabelValues(e.BlockID).Inc()
			m.logger.Info("form_complete",
				"response_id", e.ResponseID,
				"block_id", e.BlockID,
			)
		},
	}
}
