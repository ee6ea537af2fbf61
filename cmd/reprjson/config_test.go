package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProjectConfigMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadProjectConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".reprjson"), 0755))
	yaml := `
version: "1"
log_level: debug
log_format: json
include:
  - "**/*.dump"
tool_log: logs/tools.jsonl
max_workers: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".reprjson", "config.yaml"), []byte(yaml), 0644))

	cfg, err := loadProjectConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"**/*.dump"}, cfg.Include)
	assert.Equal(t, "logs/tools.jsonl", cfg.ToolLog)
	assert.Equal(t, 3, cfg.MaxWorkers)
}

func TestLoadProjectConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".reprjson"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".reprjson", "config.yaml"), []byte("{not yaml"), 0644))

	_, err := loadProjectConfig()
	assert.Error(t, err)
}

func TestResolveLogLevel(t *testing.T) {
	cfg := &ProjectConfig{LogLevel: "warn"}

	assert.Equal(t, "debug", resolveLogLevel("debug", cfg))
	assert.Equal(t, "warn", resolveLogLevel("", cfg))
	assert.Equal(t, "info", resolveLogLevel("", nil))
	assert.Equal(t, "info", resolveLogLevel("", &ProjectConfig{}))
}

func TestResolveToolLog(t *testing.T) {
	cfg := &ProjectConfig{ToolLog: "a.jsonl"}

	assert.Equal(t, "b.jsonl", resolveToolLog("b.jsonl", cfg))
	assert.Equal(t, "a.jsonl", resolveToolLog("", cfg))
	assert.Equal(t, "", resolveToolLog("", nil))
}
