package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

// QueryLogger writes the SQL blob store's GORM logs through zap. Every entry
// carries the store name plus the session and trace IDs found in the context.
type QueryLogger struct {
	base       *zap.Logger
	level      gormlogger.LogLevel
	slowQuery  time.Duration
	statements bool
}

// QueryLoggerOption configures a QueryLogger
type QueryLoggerOption func(*QueryLogger)

// WithSlowQuery sets the duration above which a query is reported at warn.
// Zero disables slow query reporting.
func WithSlowQuery(d time.Duration) QueryLoggerOption {
	return func(l *QueryLogger) {
		l.slowQuery = d
	}
}

// WithStatements includes statement text in entries. Blob values are bound
// as parameters, so the text carries keys only.
func WithStatements(enabled bool) QueryLoggerOption {
	return func(l *QueryLogger) {
		l.statements = enabled
	}
}

// WithStore tags entries with the backing database, e.g. "sqlite"
func WithStore(name string) QueryLoggerOption {
	return func(l *QueryLogger) {
		l.base = l.base.With(zap.String("store", name))
	}
}

// NewQueryLogger creates a GORM logger. level is one of silent, error, warn,
// info or debug; anything else means warn.
func NewQueryLogger(base *zap.Logger, level string, opts ...QueryLoggerOption) *QueryLogger {
	if base == nil {
		base = zap.NewNop()
	}
	l := &QueryLogger{
		base:       base.Named("sql"),
		level:      ParseQueryLevel(level),
		slowQuery:  defaultSlowQuery,
		statements: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseQueryLevel maps a level name to GORM's log level
func ParseQueryLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// LogMode implements gormlogger.Interface
func (l *QueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *QueryLogger) Info(ctx context.Context, msg string, data ...any) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

// Warn implements gormlogger.Interface
func (l *QueryLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

// Error implements gormlogger.Interface
func (l *QueryLogger) Error(ctx context.Context, msg string, data ...any) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *QueryLogger) message(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < min {
		return
	}
	if ce := l.forContext(ctx).Check(lvl, fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write()
	}
}

// Trace implements gormlogger.Interface. A missing row is how the store
// reports an absent key, so ErrRecordNotFound is never logged.
func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	if errors.Is(err, gormlogger.ErrRecordNotFound) {
		err = nil
	}

	elapsed := time.Since(begin)
	lvl, msg, ok := l.classify(elapsed, err)
	if !ok {
		return
	}
	ce := l.forContext(ctx).Check(lvl, msg)
	if ce == nil {
		return
	}

	statement, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}
	if l.statements {
		fields = append(fields, zap.String("statement", statement))
	}
	switch {
	case err != nil:
		fields = append(fields, zap.Error(err))
	case lvl == zapcore.WarnLevel:
		fields = append(fields, zap.Duration("threshold", l.slowQuery))
	}
	ce.Write(fields...)
}

func (l *QueryLogger) classify(elapsed time.Duration, err error) (zapcore.Level, string, bool) {
	switch {
	case err != nil:
		return zapcore.ErrorLevel, "blob store query failed", l.level >= gormlogger.Error
	case l.slowQuery > 0 && elapsed > l.slowQuery:
		return zapcore.WarnLevel, "slow blob store query", l.level >= gormlogger.Warn
	default:
		return zapcore.DebugLevel, "blob store query", l.level >= gormlogger.Info
	}
}

func (l *QueryLogger) forContext(ctx context.Context) *zap.Logger {
	log := l.base
	if sessionID := GetSessionID(ctx); sessionID != "" {
		log = log.With(zap.String("session_id", sessionID))
	}
	return WithTraceContext(ctx, log)
}

var _ gormlogger.Interface = (*QueryLogger)(nil)
