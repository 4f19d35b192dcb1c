package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers accepted by store.driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverS3       = "s3"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	Store     StoreConfig
	Assistant AssistantConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	OTelBridge bool   // tee records into the OpenTelemetry log bridge
}

// StoreConfig selects the blob store backend and holds per-driver settings.
type StoreConfig struct {
	Driver   string
	SQLite   SQLiteConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	S3       S3Config
}

// SQLiteConfig holds the sqlite file location
type SQLiteConfig struct {
	Path string
}

// PostgresConfig holds database connection settings
type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// S3Config holds object storage settings
type S3Config struct {
	Endpoint        string // empty = AWS default resolver
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool // required by MinIO and most S3-compatible servers
}

// AssistantConfig tunes the conversational assistant
type AssistantConfig struct {
	TranscriptCap     int
	RecentCap         int
	LowStockThreshold int
	TopN              int
	ThinkingDelay     time.Duration // cosmetic pause before replies, CLI only
	Seed              int64         // 0 = random phrase selection
	Timezone          string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	SamplingRatio  float64
	DBTraceEnabled bool // otelgorm plugin on SQL stores
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOCKY_ prefix (e.g., STOCKY_STORE_DRIVER)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/stocky")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STOCKY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			OTelBridge: v.GetBool("log.otel_bridge"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			SQLite: SQLiteConfig{
				Path: v.GetString("store.sqlite.path"),
			},
			Postgres: PostgresConfig{
				Host:            v.GetString("store.postgres.host"),
				Port:            v.GetInt("store.postgres.port"),
				User:            v.GetString("store.postgres.user"),
				Password:        v.GetString("store.postgres.password"),
				DBName:          v.GetString("store.postgres.dbname"),
				SSLMode:         v.GetString("store.postgres.sslmode"),
				MaxOpenConns:    v.GetInt("store.postgres.max_open_conns"),
				MaxIdleConns:    v.GetInt("store.postgres.max_idle_conns"),
				ConnMaxLifetime: v.GetInt("store.postgres.conn_max_lifetime"),
				ConnMaxIdleTime: v.GetInt("store.postgres.conn_max_idle_time"),
			},
			Redis: RedisConfig{
				Host:      v.GetString("store.redis.host"),
				Port:      v.GetInt("store.redis.port"),
				Password:  v.GetString("store.redis.password"),
				DB:        v.GetInt("store.redis.db"),
				KeyPrefix: v.GetString("store.redis.key_prefix"),
			},
			S3: S3Config{
				Endpoint:        v.GetString("store.s3.endpoint"),
				Region:          v.GetString("store.s3.region"),
				Bucket:          v.GetString("store.s3.bucket"),
				Prefix:          v.GetString("store.s3.prefix"),
				AccessKeyID:     v.GetString("store.s3.access_key_id"),
				SecretAccessKey: v.GetString("store.s3.secret_access_key"),
				UsePathStyle:    v.GetBool("store.s3.use_path_style"),
			},
		},
		Assistant: AssistantConfig{
			TranscriptCap:     v.GetInt("assistant.transcript_cap"),
			RecentCap:         v.GetInt("assistant.recent_cap"),
			LowStockThreshold: v.GetInt("assistant.low_stock_threshold"),
			TopN:              v.GetInt("assistant.top_n"),
			ThinkingDelay:     v.GetDuration("assistant.thinking_delay"),
			Seed:              v.GetInt64("assistant.seed"),
			Timezone:          v.GetString("assistant.timezone"),
		},
		Telemetry: TelemetryConfig{
			Enabled:        v.GetBool("telemetry.enabled"),
			ServiceName:    v.GetString("telemetry.service_name"),
			SamplingRatio:  v.GetFloat64("telemetry.sampling_ratio"),
			DBTraceEnabled: v.GetBool("telemetry.db_trace_enabled"),
		},
	}

	// thinking_delay = 0 is a legitimate choice, so only fill it when unset
	if !v.IsSet("assistant.thinking_delay") {
		cfg.Assistant.ThinkingDelay = 600 * time.Millisecond
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "stocky"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverSQLite
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = "stocky.db"
	}
	if cfg.Store.Postgres.Host == "" {
		cfg.Store.Postgres.Host = "localhost"
	}
	if cfg.Store.Postgres.Port == 0 {
		cfg.Store.Postgres.Port = 5432
	}
	if cfg.Store.Postgres.User == "" {
		cfg.Store.Postgres.User = "postgres"
	}
	if cfg.Store.Postgres.DBName == "" {
		cfg.Store.Postgres.DBName = "stocky"
	}
	if cfg.Store.Postgres.SSLMode == "" {
		cfg.Store.Postgres.SSLMode = "disable"
	}
	if cfg.Store.Postgres.MaxOpenConns == 0 {
		cfg.Store.Postgres.MaxOpenConns = 5
	}
	if cfg.Store.Postgres.MaxIdleConns == 0 {
		cfg.Store.Postgres.MaxIdleConns = 2
	}
	if cfg.Store.Postgres.ConnMaxLifetime == 0 {
		cfg.Store.Postgres.ConnMaxLifetime = 60
	}
	if cfg.Store.Postgres.ConnMaxIdleTime == 0 {
		cfg.Store.Postgres.ConnMaxIdleTime = 30
	}
	if cfg.Store.Redis.Host == "" {
		cfg.Store.Redis.Host = "localhost"
	}
	if cfg.Store.Redis.Port == 0 {
		cfg.Store.Redis.Port = 6379
	}
	if cfg.Store.Redis.KeyPrefix == "" {
		cfg.Store.Redis.KeyPrefix = "stocky:"
	}
	if cfg.Store.S3.Region == "" {
		cfg.Store.S3.Region = "us-east-1"
	}
	if cfg.Assistant.TranscriptCap == 0 {
		cfg.Assistant.TranscriptCap = 10
	}
	if cfg.Assistant.RecentCap == 0 {
		cfg.Assistant.RecentCap = 10
	}
	if cfg.Assistant.LowStockThreshold == 0 {
		cfg.Assistant.LowStockThreshold = 10
	}
	if cfg.Assistant.TopN == 0 {
		cfg.Assistant.TopN = 5
	}
	if cfg.Assistant.Timezone == "" {
		cfg.Assistant.Timezone = "Local"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "stocky"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	case DriverPostgres:
		if c.Store.Postgres.MaxOpenConns <= 0 {
			return fmt.Errorf("store.postgres.max_open_conns must be positive")
		}
		if c.Store.Postgres.MaxIdleConns < 0 {
			return fmt.Errorf("store.postgres.max_idle_conns cannot be negative")
		}
		if c.Store.Postgres.MaxIdleConns > c.Store.Postgres.MaxOpenConns {
			return fmt.Errorf("store.postgres.max_idle_conns (%d) cannot exceed store.postgres.max_open_conns (%d)",
				c.Store.Postgres.MaxIdleConns, c.Store.Postgres.MaxOpenConns)
		}
		if c.App.Env == "production" && c.Store.Postgres.SSLMode == "disable" {
			return fmt.Errorf("store.postgres.sslmode cannot be 'disable' in production")
		}
	case DriverS3:
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("store.s3.bucket is required for the s3 driver")
		}
		if (c.Store.S3.AccessKeyID == "") != (c.Store.S3.SecretAccessKey == "") {
			return fmt.Errorf("store.s3.access_key_id and store.s3.secret_access_key must be set together")
		}
	default:
		return fmt.Errorf("store.driver %q is not supported (memory, sqlite, postgres, redis, s3)", c.Store.Driver)
	}

	if c.Assistant.TranscriptCap < 2 {
		return fmt.Errorf("assistant.transcript_cap must be at least 2, got %d", c.Assistant.TranscriptCap)
	}
	if c.Assistant.RecentCap < 1 {
		return fmt.Errorf("assistant.recent_cap must be positive, got %d", c.Assistant.RecentCap)
	}
	if c.Assistant.LowStockThreshold < 1 {
		return fmt.Errorf("assistant.low_stock_threshold must be positive, got %d", c.Assistant.LowStockThreshold)
	}
	if c.Assistant.TopN < 1 {
		return fmt.Errorf("assistant.top_n must be positive, got %d", c.Assistant.TopN)
	}
	if c.Assistant.ThinkingDelay < 0 {
		return fmt.Errorf("assistant.thinking_delay cannot be negative")
	}
	if _, err := time.LoadLocation(c.Assistant.Timezone); err != nil {
		return fmt.Errorf("assistant.timezone: %w", err)
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// Location resolves the configured timezone. validate guarantees it loads.
func (a *AssistantConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DSN returns the database connection string with properly escaped values
func (d *PostgresConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port pair for the Redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
