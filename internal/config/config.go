package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// SupervisorCoreURL is the locally-proxied core API endpoint available to
// add-ons running under the platform supervisor.
const SupervisorCoreURL = "http://supervisor/core"

// Config holds all configuration for the relay daemon
type Config struct {
	Platform PlatformConfig `mapstructure:"platform"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Sampling SamplingConfig `mapstructure:"sampling"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type PlatformConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	Token          string  `mapstructure:"token"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type RelayConfig struct {
	FlushIntervalSeconds int `mapstructure:"flush_interval_seconds"`
}

type SamplingConfig struct {
	IntervalSeconds int             `mapstructure:"interval_seconds"`
	Sensors         []SensorMapping `mapstructure:"sensors"`
}

// SensorMapping wires one platform entity to one catalog statistic.
type SensorMapping struct {
	EntityID    string `mapstructure:"entity_id"`
	StatisticID string `mapstructure:"statistic_id"`
	Kind        string `mapstructure:"kind"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// $VAR references in the file are expanded before parsing, and the
// platform token falls back to SUPERVISOR_TOKEN when not configured.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Round-trip through a map first so scalar types survive env expansion
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raw config: %w", err)
	}

	data, err = yaml.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw config: %w", err)
	}

	expandedData := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewReader([]byte(expandedData))); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Platform.Token == "" {
		config.Platform.Token = os.Getenv("SUPERVISOR_TOKEN")
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("platform.base_url", SupervisorCoreURL)
	v.SetDefault("platform.timeout_seconds", 30)
	v.SetDefault("platform.rate_limit", 5.0)
	v.SetDefault("platform.rate_limit_burst", 10)

	v.SetDefault("relay.flush_interval_seconds", 60)

	v.SetDefault("sampling.interval_seconds", 30)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9102)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
