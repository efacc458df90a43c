// Package config provides configuration management for the Rift Edge engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Provider     ProviderConfig     `mapstructure:"provider" validate:"required"`
	Stats        StatsConfig        `mapstructure:"stats" validate:"required"`
	Engine       EngineConfig       `mapstructure:"engine" validate:"required"`
	Model        ModelConfig        `mapstructure:"model" validate:"required"`
	Notification NotificationConfig `mapstructure:"notification" validate:"required"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
	Health       HealthConfig       `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ProviderConfig represents odds provider configuration
type ProviderConfig struct {
	Name            string  `mapstructure:"name" validate:"required,provider"`
	BaseURL         string  `mapstructure:"base_url" validate:"omitempty,url"`
	Token           string  `mapstructure:"token"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
}

// StatsConfig represents the historical stats source configuration
type StatsConfig struct {
	Mode                string `mapstructure:"mode" validate:"required,oneof=local download"`
	LocalDir            string `mapstructure:"local_dir" validate:"required"`
	DownloadURL         string `mapstructure:"download_url" validate:"omitempty,url"`
	RefreshCron         string `mapstructure:"refresh_cron" validate:"required"`
	DownloadCron        string `mapstructure:"download_cron"`
	DownloadTimeoutSecs int    `mapstructure:"download_timeout_seconds" validate:"gte=0"`
}

// EngineConfig represents polling-cycle controller configuration
type EngineConfig struct {
	PollIntervalSeconds  int      `mapstructure:"poll_interval_seconds" validate:"required,gt=0"`
	OpeningLookaheadDays int      `mapstructure:"opening_lookahead_days" validate:"required,gt=0"`
	EdgeThreshold        float64  `mapstructure:"edge_threshold" validate:"gte=0,lt=1"`
	MonitoredLeagues     []string `mapstructure:"monitored_leagues" validate:"required,min=1"`
}

// ModelConfig represents fair-odds model configuration
type ModelConfig struct {
	MinGamesPlayed       int     `mapstructure:"min_games_played" validate:"required,gt=0"`
	MatchDurationMinutes float64 `mapstructure:"match_duration_minutes" validate:"required,gt=0"`
}

// NotificationConfig represents the Telegram notification channel
type NotificationConfig struct {
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// PollInterval returns the cycle period as a duration
func (c *EngineConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// LookaheadWindow returns the opening-odds match window as a duration
func (c *EngineConfig) LookaheadWindow() time.Duration {
	return time.Duration(c.OpeningLookaheadDays) * 24 * time.Hour
}
