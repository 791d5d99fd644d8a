package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stemvault.db", cfg.Store.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STEMVAULT_DB_PATH", "/tmp/vault.db")
	t.Setenv("STEMVAULT_TRANSPORT", "http")
	t.Setenv("STEMVAULT_SERVER_PORT", "9090")
	t.Setenv("STEMVAULT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/vault.db", cfg.Store.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
store:
  path: /data/projects.db
transport:
  mode: http
server:
  host: 127.0.0.1
  port: 7070
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("STEMVAULT_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/data/projects.db", cfg.Store.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("STEMVAULT_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Setenv("STEMVAULT_TRANSPORT", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)
}
