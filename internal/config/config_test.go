package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WEBSIM_DB_PATH", "/tmp/other.db")
	t.Setenv("WEBSIM_SEED", "99")
	t.Setenv("WEBSIM_TICK_INTERVAL", "250ms")
	t.Setenv("WEBSIM_API_PORT", "0")
	t.Setenv("WEBSIM_ADMIN_KEY", "correct-horse")
	t.Setenv("WEBSIM_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DB.Path)
	assert.Equal(t, int64(99), cfg.Sim.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Sim.TickInterval)
	assert.Zero(t, cfg.API.Port)
	assert.Equal(t, "correct-horse", cfg.API.AdminKey)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "websim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sim:
  seed: 7
  tick_interval: 2s
api:
  port: 9090
log:
  level: warn
`), 0o644))
	t.Setenv("WEBSIM_CONFIG_PATH", path)
	t.Setenv("WEBSIM_API_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Sim.Seed)
	assert.Equal(t, 2*time.Second, cfg.Sim.TickInterval)
	assert.Equal(t, 9191, cfg.API.Port, "environment wins over the file")
	assert.Equal(t, "data/websim.db", cfg.DB.Path, "unset keys keep their defaults")
	assert.Equal(t, slog.LevelWarn, cfg.Log.SlogLevel())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"seed":        {"WEBSIM_SEED": "lots"},
		"interval":    {"WEBSIM_TICK_INTERVAL": "soon"},
		"tiny tick":   {"WEBSIM_TICK_INTERVAL": "1us"},
		"port":        {"WEBSIM_API_PORT": "70000"},
		"short key":   {"WEBSIM_ADMIN_KEY": "abc"},
		"log level":   {"WEBSIM_LOG_LEVEL": "chatty"},
		"catalog":     {"WEBSIM_CATALOG_PATH": "/does/not/exist.yaml"},
		"config file": {"WEBSIM_CONFIG_PATH": "/does/not/exist.yaml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
