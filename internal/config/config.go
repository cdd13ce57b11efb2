package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	S3       S3Config
	Metrics  MetricsConfig
	Checkout CheckoutConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

// DatabaseConfig holds configuration for the receipt store.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	ConnectTimeout  time.Duration
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
// An empty APIKey disables API key checks.
type AuthConfig struct {
	APIKey string
}

// CatalogConfig holds the location of the pricing rule catalog.
type CatalogConfig struct {
	Path string
}

// S3Config holds AWS S3 configuration for the pricing catalog.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "catalog/")
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// CheckoutConfig holds limits applied to checkout requests.
type CheckoutConfig struct {
	MaxBasketItems int
}

// Load loads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	e := envReader{k: k}

	cfg := &Config{
		Server: ServerConfig{
			Host:               e.getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               e.getEnvAsInt("SERVER_PORT", 8080),
			CORSAllowedOrigins: e.getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Enabled:         e.getEnvAsBool("DB_ENABLED", true),
			Host:            e.getEnv("DB_HOST", "localhost"),
			Port:            e.getEnvAsInt("DB_PORT", 5432),
			User:            e.getEnv("DB_USER", "postgres"),
			Password:        e.getEnv("DB_PASSWORD", ""),
			Database:        e.getEnv("DB_NAME", "kartcheckout"),
			MaxConnections:  e.getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  e.getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: e.getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			ConnectTimeout:  e.getEnvAsDuration("DB_CONNECT_TIMEOUT", time.Minute),
		},
		Logger: LoggerConfig{
			Level:  e.getEnv("LOG_LEVEL", "info"),
			Format: e.getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: e.getEnv("API_KEY", ""),
		},
		Catalog: CatalogConfig{
			Path: e.getEnv("CATALOG_PATH", "data/catalog/pricing_rules.jsonl"),
		},
		S3: S3Config{
			Enabled: e.getEnvAsBool("S3_ENABLED", false),
			Bucket:  e.getEnv("S3_BUCKET", ""),
			Region:  e.getEnv("S3_REGION", "us-east-1"),
			Prefix:  e.getEnv("S3_PREFIX", "catalog/"),
		},
		Metrics: MetricsConfig{
			Enabled:   e.getEnvAsBool("METRICS_ENABLED", true),
			Namespace: e.getEnv("METRICS_NAMESPACE", "kart"),
		},
		Checkout: CheckoutConfig{
			MaxBasketItems: e.getEnvAsInt("MAX_BASKET_ITEMS", 1000),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}

		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}

		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}

		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}

		if c.Database.MaxConnections < 1 {
			return fmt.Errorf("database max connections must be at least 1")
		}

		if c.Database.MinConnections < 1 {
			return fmt.Errorf("database min connections must be at least 1")
		}

		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database min connections cannot exceed max connections")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Checkout.MaxBasketItems < 1 {
		return fmt.Errorf("max basket items must be at least 1")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// envReader reads typed values from environment variables loaded into koanf.
type envReader struct {
	k *koanf.Koanf
}

// getEnv retrieves an environment variable or returns a default value.
func (e envReader) getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(e.k.String(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func (e envReader) getEnvAsInt(key string, defaultValue int) int {
	if value := e.getEnv(key, ""); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func (e envReader) getEnvAsBool(key string, defaultValue bool) bool {
	if value := e.getEnv(key, ""); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("30s", "2m").
func (e envReader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := e.getEnv(key, ""); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func (e envReader) getEnvAsList(key string, defaultValue []string) []string {
	value := e.getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
