package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Inventory InventoryConfig `yaml:"inventory"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Search    SearchConfig    `yaml:"search"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// InventoryConfig points at the external inventory API
type InventoryConfig struct {
	APIURL         string `yaml:"api_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	RefreshCron    string `yaml:"refresh_cron"`
	RefreshOnStart bool   `yaml:"refresh_on_start"`
}

// DatabaseConfig contains database settings. Type is mysql, postgres or none.
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig configures the inventory cache. An empty address disables it.
type RedisConfig struct {
	Address    string `yaml:"address"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings. An empty host
// disables indexing and the facets endpoint.
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
	Index  string `yaml:"index"`
}

// CatalogConfig tunes the catalog engine and shopper sessions
type CatalogConfig struct {
	FeaturedOrder      string `yaml:"featured_order"`
	MaxSessions        int    `yaml:"max_sessions"`
	SessionIdleMinutes int    `yaml:"session_idle_minutes"`
	SessionSweepCron   string `yaml:"session_sweep_cron"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
	RequestsPerDay    int  `yaml:"requests_per_day"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8084",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Inventory: InventoryConfig{
			TimeoutSeconds: 15,
			RefreshCron:    "*/15 * * * *",
			RefreshOnStart: true,
		},
		Database: DatabaseConfig{
			Type: "none",
			Postgres: PostgresConfig{
				SSLMode: "disable",
			},
		},
		Redis: RedisConfig{
			TTLSeconds: 300,
		},
		Search: SearchConfig{
			Meilisearch: MeilisearchConfig{
				Index: "vehicles",
			},
		},
		Catalog: CatalogConfig{
			FeaturedOrder:      "numeric",
			MaxSessions:        10000,
			SessionIdleMinutes: 60,
			SessionSweepCron:   "*/5 * * * *",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
			RequestsPerHour:   3600,
			RequestsPerDay:    50000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadDotEnv loads a .env file into the process environment if one exists.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides config values with environment variables where set.
func (c *Config) ApplyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Inventory.APIURL, "INVENTORY_API_URL")
	setString(&c.Inventory.APIKey, "INVENTORY_API_KEY")
	setString(&c.Database.Type, "DB_TYPE")

	setString(&c.Database.MySQL.Host, "DB_HOST")
	setInt(&c.Database.MySQL.Port, "DB_PORT")
	setString(&c.Database.MySQL.User, "DB_USER")
	setString(&c.Database.MySQL.Password, "DB_PASSWORD")
	setString(&c.Database.MySQL.Database, "DB_NAME")

	setString(&c.Database.Postgres.Host, "DB_HOST")
	setInt(&c.Database.Postgres.Port, "DB_PORT")
	setString(&c.Database.Postgres.User, "DB_USER")
	setString(&c.Database.Postgres.Password, "DB_PASSWORD")
	setString(&c.Database.Postgres.Database, "DB_NAME")

	setString(&c.Redis.Address, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Search.Meilisearch.Host, "MEILISEARCH_HOST")
	setString(&c.Search.Meilisearch.APIKey, "MEILISEARCH_KEY")
	setString(&c.Catalog.FeaturedOrder, "CATALOG_FEATURED_ORDER")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	switch c.Database.Type {
	case "mysql", "postgres", "none", "":
	default:
		errs = append(errs, fmt.Errorf("database.type %q is not one of mysql, postgres, none", c.Database.Type))
	}
	switch c.Catalog.FeaturedOrder {
	case "numeric", "lexical", "":
	default:
		errs = append(errs, fmt.Errorf("catalog.featured_order %q is not one of numeric, lexical", c.Catalog.FeaturedOrder))
	}
	if c.Inventory.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("inventory.timeout_seconds must not be negative"))
	}
	if c.Catalog.SessionIdleMinutes <= 0 {
		errs = append(errs, errors.New("catalog.session_idle_minutes must be positive"))
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("rate_limit.requests_per_minute must be positive when enabled"))
	}
	return errors.Join(errs...)
}

// GetTimeout returns the inventory API timeout as a duration
func (c *InventoryConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetTTL returns the cache TTL as a duration
func (c *RedisConfig) GetTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// GetSessionIdle returns how long a session may sit idle before expiry
func (c *CatalogConfig) GetSessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}
