package kvstore

import (
	"context"
	"fmt"

	"github.com/ministock/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory opens the store selected by store.driver
type Factory struct {
	store          config.StoreConfig
	tracing        bool
	logLevel       string
	logger         *zap.Logger
	memoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithFactoryLogger sets the logger for the factory and the stores it opens
func WithFactoryLogger(l *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = l
	}
}

// WithMemoryFallback controls whether an unreachable backend degrades to an
// in-memory store. Default is false: data written then would not persist.
func WithMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.memoryFallback = allow
	}
}

// WithQueryTracing enables otelgorm spans on SQL stores
func WithQueryTracing(enabled bool) FactoryOption {
	return func(f *Factory) {
		f.tracing = enabled
	}
}

// WithQueryLogLevel sets the GORM log level for SQL stores
func WithQueryLogLevel(level string) FactoryOption {
	return func(f *Factory) {
		f.logLevel = level
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.StoreConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		store:    cfg,
		logLevel: "warn",
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Open creates the configured store, falling back to memory when allowed.
func (f *Factory) Open(ctx context.Context) (Store, error) {
	store, err := f.open(ctx)
	if err == nil {
		f.logger.Info("blob store opened", zap.String("driver", f.store.Driver))
		return store, nil
	}
	if !f.memoryFallback || f.store.Driver == config.DriverMemory {
		return nil, err
	}
	f.logger.Warn("blob store unavailable, falling back to in-memory store; changes will not persist",
		zap.String("driver", f.store.Driver),
		zap.Error(err),
	)
	return NewMemoryStore(), nil
}

func (f *Factory) open(ctx context.Context) (Store, error) {
	gormOpts := []GormOption{
		WithLogger(f.logger),
		WithLogLevel(f.logLevel),
		WithTracing(f.tracing),
	}

	switch f.store.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		return OpenSQLite(f.store.SQLite.Path, gormOpts...)
	case config.DriverPostgres:
		return OpenPostgres(&f.store.Postgres, gormOpts...)
	case config.DriverRedis:
		return NewRedisStore(&f.store.Redis)
	case config.DriverS3:
		s, err := NewS3Store(ctx, &f.store.S3, WithS3Logger(f.logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", f.store.Driver)
	}
}
