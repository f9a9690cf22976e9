package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
metadata:
  provider:
    settings:
      api_key: test-key
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "tubebox.db", cfg.Storage.Path)
	assert.Equal(t, 3.0, cfg.Playback.RestartThresholdSec)
	assert.Equal(t, 250, cfg.Playback.ProgressDebounceMs)
	assert.Equal(t, 0.1, cfg.Playback.UnmuteVolume)
	assert.Equal(t, "youtube", cfg.Metadata.Provider.Type)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  allowed_origins:
    - http://localhost:5173
storage:
  path: /tmp/test.db
playback:
  restart_threshold_sec: 5
  progress_debounce_ms: 500
  unmute_volume: 0.2
metadata:
  provider:
    type: mock
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.Path)
	assert.Equal(t, 5.0, cfg.Playback.RestartThresholdSec)
	assert.Equal(t, 500, cfg.Playback.ProgressDebounceMs)
	assert.Equal(t, 0.2, cfg.Playback.UnmuteVolume)
	assert.Equal(t, "mock", cfg.Metadata.Provider.Type)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name: "restart threshold too large",
			content: `
playback:
  restart_threshold_sec: 60
`,
			errMsg: "RestartThresholdSec",
		},
		{
			name: "negative debounce",
			content: `
playback:
  progress_debounce_ms: -1
`,
			errMsg: "ProgressDebounceMs",
		},
		{
			name: "unmute volume above one",
			content: `
playback:
  unmute_volume: 1.5
`,
			errMsg: "UnmuteVolume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("TUBEBOX_DB_PATH", "/tmp/env.db")
	t.Setenv("TUBEBOX_ADDR", ":7070")

	cfg, err := Load(writeConfig(t, `
storage:
  path: file.db
`))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Metadata.Provider.Settings["api_key"])
	assert.Equal(t, "/tmp/env.db", cfg.Storage.Path)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}
