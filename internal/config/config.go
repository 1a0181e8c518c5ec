// Package config loads ambient server settings (log level, metrics
// address, diagnostics interval) following the SetDefault/Unmarshal
// pattern in go-server-3/internal/config/config.go. Unlike that
// teacher, it never calls AutomaticEnv or SetEnvPrefix: spec.md §6 is
// explicit that the server consumes no environment variables, so the
// only externally supplied runtime setting is the CLI's optional port
// argument (parsed separately in cmd/chat-server, not through this
// package).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultPort is used when the CLI is given no positional port
// argument (spec.md §6).
const DefaultPort = 1234

// Config holds ambient settings that sit outside the wire protocol.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// DiagnosticsConfig controls the periodic CPU/memory logger.
type DiagnosticsConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// Load reads ambient configuration from an optional config file
// (chat-server.yaml in the working directory or ./config), falling
// back to defaults when absent. It deliberately never reads process
// environment variables.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_addr", ":9090")
	v.SetDefault("diagnostics.interval_seconds", 15)

	v.SetConfigName("chat-server")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
