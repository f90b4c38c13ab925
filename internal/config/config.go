package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Sessions SessionsConfig `yaml:"sessions"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	MaxUploadBytes     int64  `yaml:"max_upload_bytes"`
	PreviewRows        int    `yaml:"preview_rows"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

// DatabaseConfig selects the session backend. An empty URL keeps sessions in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// EventsConfig points at a NATS server. An empty URL disables publishing.
type EventsConfig struct {
	URL string `yaml:"url"`
}

type SessionsConfig struct {
	TTLMinutes           int `yaml:"ttl_minutes"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
}

type ExportConfig struct {
	ScorePrecision int `yaml:"score_precision"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Sessions.TTLMinutes) * time.Minute
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Sessions.SweepIntervalSeconds) * time.Second
}

// SlogLevel maps the configured level name onto slog, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds the process logger from the logging section.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Logging.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			MaxUploadBytes:     10 << 20,
			PreviewRows:        100,
			RateLimitPerMinute: 120,
		},
		Sessions: SessionsConfig{
			TTLMinutes:           60,
			SweepIntervalSeconds: 60,
		},
		Export: ExportConfig{
			ScorePrecision: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Sessions.TTLMinutes <= 0 {
		return fmt.Errorf("sessions.ttl_minutes must be positive, got %d", c.Sessions.TTLMinutes)
	}
	if c.Sessions.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("sessions.sweep_interval_seconds must be positive, got %d", c.Sessions.SweepIntervalSeconds)
	}
	if c.Server.PreviewRows <= 0 {
		return fmt.Errorf("server.preview_rows must be positive, got %d", c.Server.PreviewRows)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TOPSIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TOPSIS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("TOPSIS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("TOPSIS_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Server.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("TOPSIS_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("TOPSIS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("TOPSIS_NATS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("TOPSIS_SESSION_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sessions.TTLMinutes = n
		}
	}
	if v := os.Getenv("TOPSIS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TOPSIS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
