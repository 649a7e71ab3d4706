package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"http_addr":              "www.example:8000",
		"grpc_health_addr":       "www.example:9000",
		"database_dsn":           "postgres://x",
		"storage_timeout":        "1500ms",
		"shutdown_timeout":       3000000000,
		"log_level":              "debug",
		"log_backend":            "zap",
		"refresh_time_on_update": true,
		"max_open_conns":         20,
		"max_idle_conns":         7,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:8000", cfg.HTTPAddr)
		assert.Equal(t, "www.example:9000", cfg.GRPCHealthAddr)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, 1500*time.Millisecond, cfg.StorageTimeout)
		assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.True(t, cfg.RefreshTimeOnUpdate)
		assert.Equal(t, 20, cfg.MaxOpenConns)
		assert.Equal(t, 7, cfg.MaxIdleConns)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"log_level":              "warn",
			"refresh_time_on_update": false,
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := defaults()
		cfg.RefreshTimeOnUpdate = true
		parseJson(cfg)

		want := defaults()
		want.LogLevel = "warn"
		assert.Equal(t, want, cfg)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := defaults()
		parseJson(cfg)

		assert.Equal(t, defaults(), cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "absent.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
