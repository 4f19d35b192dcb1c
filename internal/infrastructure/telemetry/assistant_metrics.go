package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "github.com/ministock/backend/assistant"

// Instrument names.
const (
	MetricTurns        = "stocky.turns"
	MetricCharts       = "stocky.charts"
	MetricTurnDuration = "stocky.turn.duration"
)

// AssistantMetrics records one measurement set per answered turn.
type AssistantMetrics struct {
	turns    *Counter
	charts   *Counter
	duration *Histogram
	logger   *zap.Logger
}

// AssistantMetricsConfig holds the dependencies of AssistantMetrics.
type AssistantMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewAssistantMetrics creates the assistant instruments on the given meter.
func NewAssistantMetrics(cfg AssistantMetricsConfig) (*AssistantMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	turns, err := NewCounter(cfg.Meter, MetricTurns, "Answered turns by intent", "{turn}")
	if err != nil {
		return nil, err
	}
	charts, err := NewCounter(cfg.Meter, MetricCharts, "Answers that carried a chart", "{chart}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(cfg.Meter, HistogramOpts{
		Name:        MetricTurnDuration,
		Description: "Time to answer one turn",
		Unit:        "s",
		Boundaries:  []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("assistant metrics initialized")
	return &AssistantMetrics{
		turns:    turns,
		charts:   charts,
		duration: duration,
		logger:   logger,
	}, nil
}

// NewAssistantMetricsFromProvider creates the instruments on the provider's meter.
func NewAssistantMetricsFromProvider(p *Provider, logger *zap.Logger) (*AssistantMetrics, error) {
	return NewAssistantMetrics(AssistantMetricsConfig{
		Meter:  p.Meter(meterName),
		Logger: logger,
	})
}

// RecordTurn records the intent, latency and chart flag of one turn.
func (m *AssistantMetrics) RecordTurn(ctx context.Context, intent string, duration time.Duration, charted bool) {
	m.turns.Inc(ctx, AttrIntent.String(intent))
	m.duration.RecordDuration(ctx, duration, AttrIntent.String(intent))
	if charted {
		m.charts.Inc(ctx, AttrIntent.String(intent))
	}
}
