// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	View       ViewConfig       `mapstructure:"view"`
	Lifecycle  LifecycleConfig  `mapstructure:"lifecycle"`
	Popularity PopularityConfig `mapstructure:"popularity"`
	Rating     RatingConfig     `mapstructure:"rating"`
	Hash       HashConfig       `mapstructure:"hash"`
	Channels   ChannelsConfig   `mapstructure:"channels"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis connection settings. A single Redis backs the
// cache, the view ledger, the outbound channels, and distributed locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds post-snapshot caching settings.
type CacheConfig struct {
	KeyPrefix string        `mapstructure:"key_prefix"`
	PostTTL   time.Duration `mapstructure:"post_ttl"`
}

// ViewConfig holds view-dedup settings.
type ViewConfig struct {
	DedupWindow time.Duration `mapstructure:"dedup_window"`
}

// LifecycleConfig holds expire/purge scheduler settings.
type LifecycleConfig struct {
	ExpireInterval time.Duration `mapstructure:"expire_interval"`
	PurgeInterval  time.Duration `mapstructure:"purge_interval"`
	Retention      time.Duration `mapstructure:"retention"`
	PassTimeout    time.Duration `mapstructure:"pass_timeout"`
	OnStartup      bool          `mapstructure:"on_startup"`
}

// PopularityConfig holds popularity cache manager settings.
type PopularityConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	ViewThreshold int           `mapstructure:"view_threshold"`
	PassTimeout   time.Duration `mapstructure:"pass_timeout"`
}

// RatingConfig holds rating engine settings.
type RatingConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	PassTimeout time.Duration `mapstructure:"pass_timeout"`
}

// HashConfig holds hash-service client settings.
type HashConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// ChannelsConfig names the outbound pub/sub channels.
type ChannelsConfig struct {
	Notification string `mapstructure:"notification"`
	Index        string `mapstructure:"index"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "paste-content-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "paste_service")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.key_prefix", "paste-service")
	v.SetDefault("cache.post_ttl", "1h")

	// View dedup defaults
	v.SetDefault("view.dedup_window", "30m")

	// Lifecycle defaults
	v.SetDefault("lifecycle.expire_interval", "1m")
	v.SetDefault("lifecycle.purge_interval", "24h")
	v.SetDefault("lifecycle.retention", "720h") // 30 days
	v.SetDefault("lifecycle.pass_timeout", "30s")
	v.SetDefault("lifecycle.on_startup", true)

	// Popularity defaults
	v.SetDefault("popularity.interval", "1m")
	v.SetDefault("popularity.view_threshold", 1000)
	v.SetDefault("popularity.pass_timeout", "30s")

	// Rating defaults
	v.SetDefault("rating.interval", "24h")
	v.SetDefault("rating.pass_timeout", "5m")

	// Hash service defaults
	v.SetDefault("hash.base_url", "http://localhost:8081")
	v.SetDefault("hash.timeout", "10s")
	v.SetDefault("hash.retry.max_attempts", 3)
	v.SetDefault("hash.retry.wait_time", "1s")
	v.SetDefault("hash.retry.max_wait_time", "5s")
	v.SetDefault("hash.circuit_breaker.max_requests", 3)
	v.SetDefault("hash.circuit_breaker.interval", "60s")
	v.SetDefault("hash.circuit_breaker.timeout", "30s")
	v.SetDefault("hash.circuit_breaker.failure_ratio", 0.5)

	// Channel defaults
	v.SetDefault("channels.notification", "email_notification_topic")
	v.SetDefault("channels.index", "post_index_topic")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}
