package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leapbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /var/lib/leapbridge\nlog_level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/leapbridge", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leapbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))

	t.Setenv("LEAPBRIDGE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestDemoVarsDoNotLeakIntoConfig(t *testing.T) {
	t.Setenv("LEAPBRIDGE_DEMO_HOST", "db.example.com")
	t.Setenv("LEAPBRIDGE_DATA_DIR", "/tmp/lb")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lb", cfg.DataDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestPaths(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "connections.yaml"), cfg.ConnectionsPath())
	assert.Equal(t, filepath.Join("/data", "query_history.yaml"), cfg.HistoryPath())
}
