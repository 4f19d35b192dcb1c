package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ministock/backend/internal/application/assistant"
	appledger "github.com/ministock/backend/internal/application/ledger"
	"github.com/ministock/backend/internal/domain/conversation"
	"github.com/ministock/backend/internal/infrastructure/config"
	"github.com/ministock/backend/internal/infrastructure/event"
	"github.com/ministock/backend/internal/infrastructure/kvstore"
	"github.com/ministock/backend/internal/infrastructure/logger"
	"github.com/ministock/backend/internal/infrastructure/telemetry"
	"github.com/ministock/backend/internal/interfaces/cli"
)

const tracerName = "github.com/ministock/backend/cmd/stocky"

// app holds everything one command invocation needs.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	telemetry  *telemetry.Provider
	store      kvstore.Store
	normalizer *appledger.Normalizer
	poster     *appledger.Poster
	inbox      *event.NotificationInbox
	session    *assistant.Session
}

// newApp loads configuration and wires the store, the ledger services and
// the assistant session.
func newApp(ctx context.Context, opts rootOptions) (*app, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.storeDriver != "" {
		cfg.Store.Driver = opts.storeDriver
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		OTelBridge: cfg.Log.OTelBridge && cfg.Telemetry.Enabled,
		BridgeName: cfg.App.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}

	a.telemetry, err = telemetry.NewProvider(cfg.Telemetry, log, telemetry.WithGlobal())
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	factory := kvstore.NewFactory(cfg.Store,
		kvstore.WithFactoryLogger(log),
		kvstore.WithQueryLogLevel(queryLogLevel(cfg.Log.Level)),
		kvstore.WithQueryTracing(cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled),
		kvstore.WithMemoryFallback(opts.memoryFallback),
	)
	a.store, err = factory.Open(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	bus := event.NewInMemoryEventBus(log)
	a.inbox = event.NewNotificationInbox(0)
	bus.Subscribe(a.inbox)

	a.normalizer = appledger.NewNormalizer(a.store, log.Named("ledger"))
	a.normalizer.SetEventPublisher(bus)
	a.poster = appledger.NewPoster(a.store, a.normalizer, log.Named("ledger"))

	metrics, err := telemetry.NewAssistantMetricsFromProvider(a.telemetry, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	sessionOpts := []assistant.Option{
		assistant.WithLogger(log.Named("assistant")),
		assistant.WithTracer(a.telemetry.Tracer(tracerName)),
		assistant.WithRecorder(metrics),
		assistant.WithNotices(a.inbox),
		assistant.WithSettings(assistant.Settings{
			LowStockThreshold: cfg.Assistant.LowStockThreshold,
			TopN:              cfg.Assistant.TopN,
			Location:          cfg.Assistant.Location(),
		}),
		assistant.WithMemoryOptions(
			conversation.WithTranscriptCap(cfg.Assistant.TranscriptCap),
			conversation.WithRecentCap(cfg.Assistant.RecentCap),
		),
	}
	if cfg.Assistant.Seed != 0 {
		sessionOpts = append(sessionOpts, assistant.WithSeed(uint64(cfg.Assistant.Seed)))
	}
	a.session = assistant.NewSession(a.normalizer, sessionOpts...)

	return a, nil
}

// sessionContext tags ctx with the session so store and assistant logs
// can be correlated.
func (a *app) sessionContext(ctx context.Context) context.Context {
	ctx, _ = logger.WithSessionID(ctx, a.log, a.session.ID())
	return ctx
}

// queryLogLevel keeps SQL statements out of the terminal unless debugging.
func queryLogLevel(level string) string {
	if level == "debug" {
		return "info"
	}
	return "warn"
}

// repl builds the terminal driver over the session.
func (a *app) repl(in io.Reader, out io.Writer, delay bool, plain bool) (*cli.REPL, error) {
	var rendererOpts []cli.RendererOption
	if plain {
		rendererOpts = append(rendererOpts, cli.WithPlain())
	}
	renderer, err := cli.NewRenderer(rendererOpts...)
	if err != nil {
		return nil, err
	}

	opts := []cli.Option{
		cli.WithLogger(a.log.Named("cli")),
		cli.WithStats(a.telemetry),
	}
	if delay {
		opts = append(opts, cli.WithThinkingDelay(a.cfg.Assistant.ThinkingDelay))
	}
	return cli.NewREPL(in, out, a.session, renderer, opts...), nil
}

func (a *app) close(ctx context.Context) {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.telemetry != nil {
		errs = append(errs, a.telemetry.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn("shutdown finished with errors", zap.Error(err))
	}
	_ = logger.Sync(a.log)
}
