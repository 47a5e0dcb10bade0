package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, EngineBolt, cfg.Engine)
	assert.Equal(t, "lorekeeper.db", cfg.DBPath)
	assert.False(t, cfg.UseRemote)
	assert.Equal(t, "http://localhost:8080", cfg.RemoteURL)
	assert.Equal(t, 30*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOREKEEPER_ENGINE", "sqlite")
	t.Setenv("LOREKEEPER_DB_PATH", "/tmp/custom.db")
	t.Setenv("LOREKEEPER_USE_REMOTE", "true")
	t.Setenv("LOREKEEPER_REMOTE_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, EngineSQLite, cfg.Engine)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.True(t, cfg.UseRemote)
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("engine: sqlite\ndb_path: data/universe.db\nuse_remote: true\nremote_url: http://storage.local:9000\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EngineSQLite, cfg.Engine)
	assert.Equal(t, "data/universe.db", cfg.DBPath)
	assert.True(t, cfg.UseRemote)
	assert.Equal(t, "http://storage.local:9000", cfg.RemoteURL)
}

func TestLoad_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("LOREKEEPER_ENGINE", "bolt")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, EngineBolt, cfg.Engine)
}

func TestLoad_RejectsUnknownEngine(t *testing.T) {
	t.Setenv("LOREKEEPER_ENGINE", "postgres")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage engine")
}
