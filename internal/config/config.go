// Package config loads application settings from a YAML file and TJ_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Clickhouse ClickhouseConfig `mapstructure:"clickhouse"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	Cron       CronConfig       `mapstructure:"cron"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// PostgresConfig points at the trade and rule set database. An empty DSN selects in-memory stores.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ClickhouseConfig points at the snapshot database. An empty DSN selects the in-memory store.
type ClickhouseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// AnalyticsConfig holds the defaults handed to the analytics engine.
type AnalyticsConfig struct {
	PnLBins int `mapstructure:"pnl_bins"`
	RBins   int `mapstructure:"r_bins"`
}

// CronConfig schedules periodic snapshots. Specs include a seconds field.
type CronConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Snapshot string   `mapstructure:"snapshot"`
	Accounts []string `mapstructure:"accounts"`
}

// DefaultPath is read when TJ_CONFIG is unset.
const DefaultPath = "config/config.yaml"

// LoadFromEnv loads the file named by TJ_CONFIG, or DefaultPath when it exists.
// TJ_ENV_ONLY=true (or 1) skips the file.
func LoadFromEnv() (Config, error) {
	envOnly := false
	if raw := os.Getenv("TJ_ENV_ONLY"); raw != "" {
		envOnly = strings.EqualFold(raw, "true") || raw == "1"
	}
	path := os.Getenv("TJ_CONFIG")
	if path == "" {
		path = DefaultPath
		if _, err := os.Stat(path); err != nil {
			envOnly = true
		}
	}
	return Load(path, envOnly)
}

// Load reads path (YAML) over defaults. With envOnly the file is skipped and
// only defaults and environment variables apply.
func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("clickhouse.dsn", "")
	v.SetDefault("analytics.pnl_bins", 10)
	v.SetDefault("analytics.r_bins", 5)
	v.SetDefault("cron.enabled", false)
	v.SetDefault("cron.snapshot", "0 0 * * * *")
	v.SetDefault("cron.accounts", []string{})

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.Analytics.PnLBins <= 0 {
		return fmt.Errorf("analytics.pnl_bins must be positive, got %d", c.Analytics.PnLBins)
	}
	if c.Analytics.RBins <= 0 {
		return fmt.Errorf("analytics.r_bins must be positive, got %d", c.Analytics.RBins)
	}
	if c.Cron.Enabled && c.Cron.Snapshot == "" {
		return fmt.Errorf("cron.snapshot is required when cron is enabled")
	}
	return nil
}
