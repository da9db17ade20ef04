package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindterm/layout"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig(configSources{RCPath: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)

	assert.Equal(t, defaultConfig(), config)
	assert.Equal(t, layout.CellConfig(), config.Layout())
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	rc := writeFile(t, dir, ".mindtermrc", `
# comment
direction = tb
level_gap = 6
sibling_gap = 2
confirmations = false
history_limit = not-a-number
`)
	yml := writeFile(t, dir, "config.yaml", "level_gap: 8\nlog_level: debug\n")

	config, err := loadConfig(configSources{
		RCPath:   rc,
		YAMLPath: yml,
		Getenv:   env(map[string]string{"MINDTERM_SIBLING_GAP": "3", "MINDTERM_DIRECTION": "rl"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "RL", config.Direction, "env beats rc")
	assert.Equal(t, 8.0, config.LevelGap, "yaml beats rc")
	assert.Equal(t, 3.0, config.SiblingGap, "env beats rc")
	assert.Equal(t, "debug", config.LogLevel)
	assert.False(t, config.Confirmations)
	assert.Equal(t, 100, config.HistoryLimit, "unparsable values are ignored")

	lc := config.Layout()
	assert.Equal(t, layout.RightToLeft, lc.Direction)
	assert.Equal(t, 8.0, lc.LevelGap)
	assert.Equal(t, 3.0, lc.SiblingGap)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad direction", "direction: diagonal\n"},
		{"gap too small", "level_gap: 0\n"},
		{"negative sibling gap", "sibling_gap: -1\n"},
		{"bad log level", "log_level: loud\n"},
		{"history limit", "history_limit: 0\n"},
		{"malformed", "level_gap: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.yaml)
			_, err := loadConfig(configSources{YAMLPath: path})
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingYAML(t *testing.T) {
	_, err := loadConfig(configSources{YAMLPath: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
	getenv := env(map[string]string{"B": "yes", "I": "12", "F": "2.5", "BAD": "x"})

	assert.True(t, getEnvBool(getenv, "B", false))
	assert.True(t, getEnvBool(getenv, "MISSING", true))
	assert.False(t, getEnvBool(getenv, "BAD", false))
	assert.Equal(t, 12, getEnvInt(getenv, "I", 0))
	assert.Equal(t, 7, getEnvInt(getenv, "BAD", 7))
	assert.Equal(t, 2.5, getEnvFloat(getenv, "F", 0))
	assert.Equal(t, "d", getEnv(getenv, "MISSING", "d"))
}

func TestGetSavePath(t *testing.T) {
	dir := t.TempDir()
	config := &Config{SaveDirectory: filepath.Join(dir, "maps")}

	assert.Equal(t, filepath.Join(dir, "maps", "a.json"), config.GetSavePath("a.json"))
	assert.DirExists(t, filepath.Join(dir, "maps"))
	assert.Equal(t, "/abs/b.json", config.GetSavePath("/abs/b.json"))
	assert.Equal(t, "c.json", (&Config{}).GetSavePath("c.json"))
}
