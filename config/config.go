// Package config loads telemetry configuration from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the telemetry pipeline configuration loaded from the environment.
type Config struct {
	// MeasurementID identifies the collector property. Delivery is disabled when empty.
	MeasurementID string `mapstructure:"COLLECTOR_MEASUREMENT_ID"`
	// APISecret authenticates collector requests. Delivery is disabled when empty.
	APISecret string `mapstructure:"COLLECTOR_API_SECRET"`
	// BaseURL is the collector origin (default https://www.google-analytics.com).
	BaseURL string `mapstructure:"COLLECTOR_BASE_URL"`
	// Timeout bounds a single delivery attempt (e.g. "5s").
	Timeout string `mapstructure:"COLLECTOR_TIMEOUT"`
	// Debug enables verbose request/response logging. It does not change the wire format.
	Debug bool `mapstructure:"DEBUG_MODE"`
	// AppName is the product name attached to every event.
	AppName string `mapstructure:"TELEMETRY_APP_NAME"`
	// AppID is the reverse-DNS application identifier.
	AppID string `mapstructure:"TELEMETRY_APP_ID"`
	// AppVersion is the application version string.
	AppVersion string `mapstructure:"TELEMETRY_APP_VERSION"`
	// InstallSource classifies how the application was installed.
	InstallSource string `mapstructure:"TELEMETRY_INSTALL_SOURCE"`
	// ClientIDFile overrides the persisted client-id path. Empty means the
	// per-platform user config dir.
	ClientIDFile string `mapstructure:"CLIENT_ID_FILE"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment via Viper. Missing .env is ignored. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("COLLECTOR_MEASUREMENT_ID", "")
	v.SetDefault("COLLECTOR_API_SECRET", "")
	v.SetDefault("COLLECTOR_BASE_URL", "https://www.google-analytics.com")
	v.SetDefault("COLLECTOR_TIMEOUT", "5s")
	v.SetDefault("DEBUG_MODE", false)
	v.SetDefault("TELEMETRY_APP_NAME", "Desktop_Studio")
	v.SetDefault("TELEMETRY_APP_ID", "io.studio.desktop")
	v.SetDefault("TELEMETRY_APP_VERSION", "0.0.0")
	v.SetDefault("TELEMETRY_INSTALL_SOURCE", "direct")
	v.SetDefault("CLIENT_ID_FILE", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("config: COLLECTOR_BASE_URL must be set")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &cfg, nil
}

// Enabled reports whether delivery credentials are present. When false the
// delivery channel skips network calls entirely.
func (c *Config) Enabled() bool {
	return c.MeasurementID != "" && c.APISecret != ""
}

// TimeoutDuration parses Timeout as a time.Duration. Returns 5s if unset or invalid.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}
