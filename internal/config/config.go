// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Fetcher       FetcherConfig       `yaml:"fetcher"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// FetcherConfig defines the price fetch backend.
type FetcherConfig struct {
	Backend string        `yaml:"backend"` // http, script
	Timeout time.Duration `yaml:"timeout"`

	HTTP   HTTPFetcherConfig   `yaml:"http"`
	Script ScriptFetcherConfig `yaml:"script"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// HTTPFetcherConfig defines the extraction-service HTTP backend.
type HTTPFetcherConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// ScriptFetcherConfig defines the subprocess extractor backend.
type ScriptFetcherConfig struct {
	Path string   `yaml:"path"`
	Args []string `yaml:"args"`
}

// RateLimitConfig throttles outbound fetches.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// ScheduleConfig defines the monitoring sweep cadence.
type ScheduleConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	Concurrency   int           `yaml:"concurrency"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Backend string        `yaml:"backend"` // smtp, webhook, none
	SMTP    SMTPConfig    `yaml:"smtp"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SMTPConfig defines outbound email settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyFetcherDefaults(&cfg.Fetcher)
	applyScheduleDefaults(&cfg.Schedule)
	applyNotificationsDefaults(&cfg.Notifications)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyFetcherDefaults(f *FetcherConfig) {
	if f.Backend == "" {
		f.Backend = "http"
	}
	if f.Timeout == 0 {
		f.Timeout = 30 * time.Second
	}
	if f.RateLimit.PerSecond == 0 {
		f.RateLimit.PerSecond = 2.0
	}
	if f.RateLimit.Burst == 0 {
		f.RateLimit.Burst = 5
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.SweepInterval == 0 {
		s.SweepInterval = 1 * time.Hour
	}
	if s.InitialDelay == 0 {
		s.InitialDelay = 1 * time.Minute
	}
	if s.Concurrency == 0 {
		s.Concurrency = 4
	}
}

func applyNotificationsDefaults(n *NotificationsConfig) {
	if n.Backend == "" {
		n.Backend = "none"
	}
	if n.SMTP.Port == 0 {
		n.SMTP.Port = 587
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	switch cfg.Fetcher.Backend {
	case "http":
		if cfg.Fetcher.HTTP.Endpoint == "" {
			errs = append(
				errs,
				fmt.Errorf("fetcher.http.endpoint is required when backend is http"),
			)
		}
	case "script":
		if cfg.Fetcher.Script.Path == "" {
			errs = append(
				errs,
				fmt.Errorf("fetcher.script.path is required when backend is script"),
			)
		}
	default:
		errs = append(
			errs,
			fmt.Errorf("fetcher.backend must be one of: http, script (got %q)", cfg.Fetcher.Backend),
		)
	}

	switch cfg.Notifications.Backend {
	case "none":
	case "smtp":
		if cfg.Notifications.SMTP.Host == "" {
			errs = append(
				errs,
				fmt.Errorf("notifications.smtp.host is required when backend is smtp"),
			)
		}
		if cfg.Notifications.SMTP.From == "" {
			errs = append(
				errs,
				fmt.Errorf("notifications.smtp.from is required when backend is smtp"),
			)
		}
	case "webhook":
		if cfg.Notifications.Webhook.URL == "" {
			errs = append(
				errs,
				fmt.Errorf("notifications.webhook.url is required when backend is webhook"),
			)
		}
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"notifications.backend must be one of: smtp, webhook, none (got %q)",
				cfg.Notifications.Backend,
			),
		)
	}

	return errors.Join(errs...)
}
