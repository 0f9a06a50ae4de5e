package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, EnvProduction, cfg.Environment)
	require.Equal(t, 20*time.Second, cfg.Websocket.PingInterval)
	require.Equal(t, 10*time.Second, cfg.Websocket.PingTimeout)
	require.Equal(t, 500*time.Millisecond, cfg.Websocket.BackoffInitial)
	require.Equal(t, 30*time.Second, cfg.Websocket.BackoffMax)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	doc := `
environment: demo
auth:
  keyId: key-123
  privateKeyPath: /tmp/key.pem
websocket:
  pingInterval: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, EnvDemo, cfg.Environment)
	require.Equal(t, "key-123", cfg.Auth.KeyID)
	require.Equal(t, 5*time.Second, cfg.Websocket.PingInterval)
	// Untouched fields keep their defaults.
	require.Equal(t, 10*time.Second, cfg.Websocket.PingTimeout)
	require.Equal(t, 15*time.Second, cfg.REST.Timeout)
}

func TestValidateRejectsUnknownEnvironment(t *testing.T) {
	cfg := Default()
	cfg.Environment = "staging"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedBackoff(t *testing.T) {
	cfg := Default()
	cfg.Websocket.BackoffInitial = time.Minute
	require.Error(t, cfg.Validate())
}

func TestEnvironmentEndpoints(t *testing.T) {
	require.Equal(t, ProductionAPIBase, EnvProduction.APIBase())
	require.Equal(t, ProductionWSURL, EnvProduction.WebsocketURL())
	require.Equal(t, DemoAPIBase, EnvDemo.APIBase())
	require.Equal(t, DemoWSURL, EnvDemo.WebsocketURL())
}
