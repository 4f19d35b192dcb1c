package telemetry_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"

	"github.com/ministock/backend/internal/infrastructure/config"
	"github.com/ministock/backend/internal/infrastructure/logger"
	"github.com/ministock/backend/internal/infrastructure/telemetry"
)

type recordingLogProcessor struct {
	mu     sync.Mutex
	bodies []string
}

func (p *recordingLogProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, r.Body().AsString())
	return nil
}

func (p *recordingLogProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool {
	return true
}

func (p *recordingLogProcessor) Shutdown(context.Context) error   { return nil }
func (p *recordingLogProcessor) ForceFlush(context.Context) error { return nil }

func (p *recordingLogProcessor) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.bodies...)
}

func TestNewProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	p, err := telemetry.NewProvider(config.TelemetryConfig{ServiceName: "test-service"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())

	_, span := p.Tracer("test").Start(ctx, "noop-span")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, p.ForceFlush(ctx))
	assert.NoError(t, p.Shutdown(ctx))
}

func TestNewProvider_RecordsSpans(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()

	p, err := telemetry.NewProvider(config.TelemetryConfig{
		Enabled:       true,
		ServiceName:   "test-service",
		SamplingRatio: 1.0,
	}, nil, telemetry.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(ctx) }()

	assert.True(t, p.IsEnabled())

	_, span := p.Tracer("test").Start(ctx, "assistant.HandleUtterance")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "assistant.HandleUtterance", ended[0].Name())

	var service string
	for _, kv := range ended[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "test-service", service)
}

func TestNewProvider_ZeroRatioNeverSamples(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()

	p, err := telemetry.NewProvider(config.TelemetryConfig{
		Enabled:       true,
		ServiceName:   "test-service",
		SamplingRatio: 0,
	}, nil, telemetry.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(ctx) }()

	_, span := p.Tracer("test").Start(ctx, "dropped")
	span.End()

	assert.Empty(t, recorder.Ended())
}

func TestProvider_GlobalLogBridge(t *testing.T) {
	ctx := context.Background()
	processor := &recordingLogProcessor{}

	p, err := telemetry.NewProvider(config.TelemetryConfig{
		Enabled:       true,
		ServiceName:   "test-service",
		SamplingRatio: 1.0,
	}, nil, telemetry.WithLogProcessor(processor), telemetry.WithGlobal())
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(ctx) }()

	cfg := logger.DefaultConfig()
	cfg.Level = "info"
	cfg.OTelBridge = true
	var buf bytes.Buffer
	log := logger.NewWithWriter(cfg, &buf)

	log.Info("ledger loaded")
	log.Debug("filtered out")

	assert.Contains(t, buf.String(), "ledger loaded")
	assert.Equal(t, []string{"ledger loaded"}, processor.messages())
}
