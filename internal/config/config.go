package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
)

// Backup index backends
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Save    SaveConfig
	Catalog CatalogConfig
	Backup  BackupConfig
	Redis   RedisConfig
	Log     LogConfig
}

// SaveConfig holds save folder configuration
type SaveConfig struct {
	Folder           string `env:"ANALYZER_SAVE_FOLDER"`
	ReportPlayerInfo bool   `env:"ANALYZER_REPORT_PLAYER_INFO" envDefault:"true"`
	DumpAnalyzerJSON bool   `env:"ANALYZER_DUMP_JSON" envDefault:"false"`
	DumpPath         string `env:"ANALYZER_DUMP_PATH" envDefault:"analyzer.json"`
}

// CatalogConfig locates the item catalog
type CatalogConfig struct {
	Path string `env:"ANALYZER_CATALOG" envDefault:"catalog.yaml"`
}

// BackupConfig selects and sizes the backup index
type BackupConfig struct {
	Store     string `env:"ANALYZER_BACKUP_STORE" envDefault:"memory"`
	Limit     int    `env:"ANALYZER_BACKUP_LIMIT" envDefault:"0"`
	SQLiteDSN string `env:"ANALYZER_BACKUP_SQLITE_DSN" envDefault:"sqlite://backups.db"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL wins over the discrete fields when set
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom loads configuration from the given variables instead of the process environment
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Backup.Store = strings.ToLower(strings.TrimSpace(cfg.Backup.Store))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.Backup.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("ANALYZER_BACKUP_STORE must be one of memory, redis, sqlite, got %q", c.Backup.Store)
	}
	if c.Backup.Limit < 0 {
		return fmt.Errorf("ANALYZER_BACKUP_LIMIT cannot be negative")
	}
	if c.Backup.Store == StoreSQLite && c.Backup.SQLiteDSN == "" {
		return fmt.Errorf("ANALYZER_BACKUP_SQLITE_DSN is required for the sqlite store")
	}
	if c.Backup.Store == StoreRedis && c.Redis.URL == "" && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_URL or REDIS_ADDR is required for the redis store")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Options builds go-redis client options
func (r RedisConfig) Options() (*redis.Options, error) {
	if r.URL != "" {
		opts, err := redis.ParseURL(r.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	}, nil
}
