package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ministock/backend/internal/infrastructure/config"
	"github.com/ministock/backend/internal/infrastructure/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is one row of the kv_blobs table.
type Blob struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName implements gorm's schema.Tabler
func (Blob) TableName() string {
	return "kv_blobs"
}

// GormStore keeps blobs in a SQL table.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

type gormOptions struct {
	logger      *zap.Logger
	logLevel    string
	tracing     bool
	dbSystem    string
	autoMigrate bool
}

// GormOption configures a GormStore
type GormOption func(*gormOptions)

// WithLogger sets the zap logger used for store and query logs
func WithLogger(l *zap.Logger) GormOption {
	return func(o *gormOptions) {
		o.logger = l
	}
}

// WithLogLevel sets the GORM log level (silent, error, warn, info)
func WithLogLevel(level string) GormOption {
	return func(o *gormOptions) {
		o.logLevel = level
	}
}

// WithTracing registers the otelgorm plugin so each query becomes a span
func WithTracing(enabled bool) GormOption {
	return func(o *gormOptions) {
		o.tracing = enabled
	}
}

// WithAutoMigrate creates the blob table through GORM on open. Postgres
// deployments normally apply the SQL migrations instead.
func WithAutoMigrate(enabled bool) GormOption {
	return func(o *gormOptions) {
		o.autoMigrate = enabled
	}
}

func newGormOptions(opts []GormOption) *gormOptions {
	o := &gormOptions{
		logger:   zap.NewNop(),
		logLevel: "warn",
		dbSystem: "sqlite",
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// OpenSQLite opens (or creates) a sqlite database file. The path ":memory:"
// gives a private in-memory database. The table is created automatically.
func OpenSQLite(path string, opts ...GormOption) (*GormStore, error) {
	o := newGormOptions(append([]GormOption{WithAutoMigrate(true)}, opts...))
	o.dbSystem = "sqlite"

	db, err := gorm.Open(sqlite.Open(path), gormConfig(o))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// one connection: sqlite serializes writers, and each :memory:
	// connection would otherwise see its own empty database
	sqlDB.SetMaxOpenConns(1)

	return newGormStore(db, o)
}

// OpenPostgres connects to postgres using the configured pool settings.
func OpenPostgres(cfg *config.PostgresConfig, opts ...GormOption) (*GormStore, error) {
	o := newGormOptions(opts)
	o.dbSystem = "postgresql"

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(o))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newGormStore(db, o)
}

// NewGormStore wraps an already opened connection.
func NewGormStore(db *gorm.DB, opts ...GormOption) (*GormStore, error) {
	return newGormStore(db, newGormOptions(opts))
}

func newGormStore(db *gorm.DB, o *gormOptions) (*GormStore, error) {
	if o.tracing {
		plugin := otelgorm.NewPlugin(
			otelgorm.WithDBName(o.dbSystem),
			otelgorm.WithoutQueryVariables(),
		)
		if err := db.Use(plugin); err != nil {
			return nil, fmt.Errorf("failed to register otelgorm plugin: %w", err)
		}
	}
	if o.autoMigrate {
		if err := db.AutoMigrate(&Blob{}); err != nil {
			return nil, fmt.Errorf("failed to migrate kv_blobs: %w", err)
		}
	}
	return &GormStore{db: db, logger: o.logger.Named("kvstore")}, nil
}

func gormConfig(o *gormOptions) *gorm.Config {
	return &gorm.Config{
		Logger:                 logger.NewQueryLogger(o.logger, o.logLevel, logger.WithStore(o.dbSystem)),
		SkipDefaultTransaction: true,
	}
}

// Get implements ledger.BlobStore
func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	var rows []Blob
	if err := s.db.WithContext(ctx).Where("key = ?", key).Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0].Value, true, nil
}

// Set implements ledger.BlobStore as an upsert on the key.
func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == nil {
		value = []byte{}
	}
	blob := Blob{Key: key, Value: clone(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	s.logger.Debug("blob written", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// DB exposes the connection for migrations and health checks
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// Ping checks if the database connection is alive
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
