package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
database:
  host: db.internal
  port: "5433"
  user: kitchen
  password: secret
  database: crispy
rabbitmq:
  enabled: true
  host: mq.internal
  port: "5672"
  user: guest
  password: guest
  exchange: order_status_fanout
http:
  port: 3000
  shutdown_timeout: 5s
tracking:
  strict_transitions: true
  estimated_ready_minutes: 20
log:
  level: DEBUG
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFromYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "5433", cfg.DB.Port)
	assert.True(t, cfg.RMQ.Enabled)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.True(t, cfg.Tracking.StrictTransitions)
	assert.Equal(t, 20, cfg.Tracking.EstimatedReadyMinutes)
	// untouched keys keep their defaults
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
	assert.Equal(t, "order_status_notifications", cfg.RMQ.Queue)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("CRISPY_DB_HOST", "override.internal")
	t.Setenv("CRISPY_HTTP_PORT", "9090")

	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "override.internal", cfg.DB.Host)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 15, cfg.Tracking.EstimatedReadyMinutes)
	assert.False(t, cfg.Tracking.StrictTransitions)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Tracking.EstimatedReadyMinutes = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DB.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	p := Postgres{User: "u", Password: "p", Host: "h", Port: "5432", Database: "d"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", p.DSN())
}
