package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "backend:\n  base_url: http://api.local\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://api.local/api", cfg.Backend.APIURL())
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 10, cfg.Payment.MaxAttempts)
	assert.Equal(t, 2000, cfg.Payment.IntervalMillis)
	assert.Equal(t, 1500, cfg.Payment.ConfirmedDelayMs)
	assert.Equal(t, 2000, cfg.Payment.FailedDelayMs)
	assert.Equal(t, 10, cfg.Bookings.RefreshSeconds)
	assert.Equal(t, "token", cfg.Session.CredentialKey)
	assert.Equal(t, "sid", cfg.Session.CookieName)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
http:
  address: ":8081"
  public_url: "https://fly.example.com"
backend:
  base_url: "https://backend.example.com"
payment:
  max_attempts: 3
kafka:
  brokers: ["k1:9092", "k2:9092"]
  flow_events_topic: flow
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTP.Address)
	assert.Equal(t, "https://fly.example.com", cfg.HTTP.PublicURL)
	assert.Equal(t, 3, cfg.Payment.MaxAttempts)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "flow", cfg.Kafka.FlowEventsTopic)
	assert.Equal(t, 256, cfg.Kafka.PublishQueueSize)
	assert.Equal(t, 5000, cfg.Kafka.PublishTimeoutMs)
}

func TestLoadConfig_MissingBackend(t *testing.T) {
	path := writeConfig(t, "http:\n  address: \":80\"\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "backend.base_url")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
