package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
platform:
  base_url: "http://homeassistant.local:8123"
  token: "test-token"
  timeout_seconds: 15

relay:
  flush_interval_seconds: 30

metrics:
  enabled: true
  port: 9200

logging:
  level: "debug"
  format: "json"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := Load(configPath)
	assert.NoError(t, err)
	assert.NotNil(t, config)

	// Verify loaded values
	assert.Equal(t, "http://homeassistant.local:8123", config.Platform.BaseURL)
	assert.Equal(t, "test-token", config.Platform.Token)
	assert.Equal(t, 15, config.Platform.TimeoutSeconds)
	assert.Equal(t, 30, config.Relay.FlushIntervalSeconds)
	assert.Equal(t, 9200, config.Metrics.Port)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
platform:
  token: "test-token"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := Load(configPath)
	assert.NoError(t, err)

	// Unset values fall back to defaults
	assert.Equal(t, SupervisorCoreURL, config.Platform.BaseURL)
	assert.Equal(t, 30, config.Platform.TimeoutSeconds)
	assert.Equal(t, 60, config.Relay.FlushIntervalSeconds)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
}

func TestLoadWithEnvOverride(t *testing.T) {
	// Set environment variables
	t.Setenv("STATS_PLATFORM_URL", "http://envhost:8123")
	t.Setenv("STATS_FLUSH_INTERVAL", "45")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
platform:
  base_url: $STATS_PLATFORM_URL
  token: "test-token"

relay:
  flush_interval_seconds: $STATS_FLUSH_INTERVAL
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := Load(configPath)
	assert.NoError(t, err)
	assert.NotNil(t, config)

	// Verify environment variables override config file
	assert.Equal(t, "http://envhost:8123", config.Platform.BaseURL)
	assert.Equal(t, 45, config.Relay.FlushIntervalSeconds)
}

func TestLoadSupervisorTokenFallback(t *testing.T) {
	t.Setenv("SUPERVISOR_TOKEN", "supervisor-secret")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("logging:\n  level: info\n"), 0644)
	assert.NoError(t, err)

	config, err := Load(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "supervisor-secret", config.Platform.Token)
}
