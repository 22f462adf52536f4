package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commander.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "❯ ", cfg.Prompt)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Terminal)
	assert.False(t, cfg.Log.Development)
	assert.Empty(t, cfg.Log.File)
	assert.Empty(t, cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
prompt: "$ "
log:
  level: debug
  file: /tmp/commander.log
  terminal: false
server:
  addr: ":8080"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/commander.log", cfg.Log.File)
	assert.False(t, cfg.Log.Terminal)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "log:\n  development: true\n"))
	require.NoError(t, err)

	assert.Equal(t, "❯ ", cfg.Prompt)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Terminal)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "prompt: \"$ \"\nlog:\n  level: debug\n")
	t.Setenv("COMMANDER_LOG_LEVEL", "error")
	t.Setenv("COMMANDER_LOG_TERMINAL", "false")
	t.Setenv("COMMANDER_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.False(t, cfg.Log.Terminal)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		env  map[string]string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
		},
		{
			name: "malformed yaml",
			path: func(t *testing.T) string { return writeFile(t, "log: [") },
		},
		{
			name: "unknown field",
			path: func(t *testing.T) string { return writeFile(t, "colour: red\n") },
		},
		{
			name: "bad level",
			path: func(t *testing.T) string { return writeFile(t, "log:\n  level: loud\n") },
		},
		{
			name: "empty prompt",
			path: func(t *testing.T) string { return writeFile(t, "prompt: \"\"\n") },
		},
		{
			name: "bad environment value",
			path: func(*testing.T) string { return "" },
			env:  map[string]string{"COMMANDER_LOG_TERMINAL": "maybe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(tt.path(t))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestConfig_Logger(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Logger().OutputPaths)

	cfg.Log.File = "commander.log"
	cfg.Log.Level = "debug"
	logCfg := cfg.Logger()
	assert.Equal(t, []string{"commander.log"}, logCfg.OutputPaths)
	assert.Equal(t, "debug", logCfg.Level)
}
