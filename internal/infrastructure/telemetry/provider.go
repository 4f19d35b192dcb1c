// Package telemetry wires OpenTelemetry tracing, metrics and the log bridge
// for the assistant. Nothing is exported over the network: spans go to the
// registered span processors and metrics are read on demand through a
// manual reader.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/ministock/backend/internal/infrastructure/config"
)

const serviceVersion = "2.1"

// Option configures a Provider.
type Option func(*options)

type options struct {
	spanProcessors []sdktrace.SpanProcessor
	logProcessors  []sdklog.Processor
	setGlobal      bool
}

// WithSpanProcessor adds a span processor to the tracer provider.
func WithSpanProcessor(p sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessors = append(o.spanProcessors, p) }
}

// WithLogProcessor adds a processor to the log bridge provider.
func WithLogProcessor(p sdklog.Processor) Option {
	return func(o *options) { o.logProcessors = append(o.logProcessors, p) }
}

// WithGlobal installs the providers as the otel globals.
func WithGlobal() Option {
	return func(o *options) { o.setGlobal = true }
}

// Provider owns the trace, metric and log providers of one process.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	loggerProvider *sdklog.LoggerProvider
	reader         *sdkmetric.ManualReader
	logger         *zap.Logger
	config         config.TelemetryConfig
}

// NewProvider builds the providers. Metrics are always collected locally
// so turn statistics work with tracing disabled. With tracing disabled the
// tracer is a no-op and the log bridge is not installed.
func NewProvider(cfg config.TelemetryConfig, logger *zap.Logger, opts ...Option) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{
		reader: sdkmetric.NewManualReader(),
		logger: logger,
		config: cfg,
	}
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(p.reader),
	)

	if cfg.Enabled {
		traceOpts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(res),
			sdktrace.WithSampler(newSampler(cfg.SamplingRatio)),
		}
		for _, sp := range o.spanProcessors {
			traceOpts = append(traceOpts, sdktrace.WithSpanProcessor(sp))
		}
		p.tracerProvider = sdktrace.NewTracerProvider(traceOpts...)

		logOpts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
		for _, lp := range o.logProcessors {
			logOpts = append(logOpts, sdklog.WithProcessor(lp))
		}
		p.loggerProvider = sdklog.NewLoggerProvider(logOpts...)
	}

	if o.setGlobal {
		p.installGlobals()
	}

	logger.Info("telemetry initialized",
		zap.Bool("tracing", cfg.Enabled),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.String("service_name", cfg.ServiceName),
	)
	return p, nil
}

func newSampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1.0:
		return sdktrace.AlwaysSample()
	case ratio <= 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func (p *Provider) installGlobals() {
	otel.SetMeterProvider(p.meterProvider)
	if p.tracerProvider != nil {
		otel.SetTracerProvider(p.tracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}
	if p.loggerProvider != nil {
		global.SetLoggerProvider(p.loggerProvider)
	}
}

// Tracer returns a named tracer, a no-op one when tracing is disabled.
func (p *Provider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if p.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name, opts...)
	}
	return p.tracerProvider.Tracer(name, opts...)
}

// Meter returns a named meter.
func (p *Provider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return p.meterProvider.Meter(name, opts...)
}

// IsEnabled reports whether tracing is on.
func (p *Provider) IsEnabled() bool {
	return p.tracerProvider != nil
}

// ForceFlush flushes pending spans and log records.
func (p *Provider) ForceFlush(ctx context.Context) error {
	var errs []error
	if p.tracerProvider != nil {
		errs = append(errs, p.tracerProvider.ForceFlush(ctx))
	}
	if p.loggerProvider != nil {
		errs = append(errs, p.loggerProvider.ForceFlush(ctx))
	}
	return errors.Join(errs...)
}

// Shutdown flushes and stops every provider. It should be called once when
// the application exits.
func (p *Provider) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	if p.loggerProvider != nil {
		if err := p.loggerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown logger provider: %w", err))
		}
	}
	if err := p.meterProvider.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		p.logger.Error("telemetry shutdown failed", zap.Error(err))
		return err
	}
	p.logger.Debug("telemetry shutdown complete")
	return nil
}
