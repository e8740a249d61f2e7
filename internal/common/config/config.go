// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Expiry        ExpiryConfig        `mapstructure:"expiry"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ExpiryConfig controls the expiration scan batch.
type ExpiryConfig struct {
	HorizonDays       int `mapstructure:"horizon_days"`        // how far ahead candidates are pulled
	ScanIntervalSec   int `mapstructure:"scan_interval_sec"`   // ticker period in the worker shell
	WorkerPoolSize    int `mapstructure:"worker_pool_size"`    // concurrent per-key processors
	KeyTimeoutMS      int `mapstructure:"key_timeout_ms"`      // per-key processing budget
	ConfigCacheTTLSec int `mapstructure:"config_cache_ttl_sec"` // resolver redis cache TTL
}

// NotificationsConfig carries channel transport settings.
type NotificationsConfig struct {
	Email   EmailChannelConfig   `mapstructure:"email"`
	SMS     SMSChannelConfig     `mapstructure:"sms"`
	Webhook WebhookChannelConfig `mapstructure:"webhook"`
}

type EmailChannelConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	FromEmail string `mapstructure:"from_email"`
	AWSRegion string `mapstructure:"aws_region"`
}

type SMSChannelConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AWSRegion string `mapstructure:"aws_region"`
}

type WebhookChannelConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	TimeoutMS int  `mapstructure:"timeout_ms"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
