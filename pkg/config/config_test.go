// Copyright 2026 fanjia1024
// Tests for config loading

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
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  port: 9090
  gui: true
  max_upload_size: 1048576

model:
  llm:
    provider: gemini
    timeout: 30s
    requests_per_minute: 60
    burst: 5
  vision:
    provider: blip
    base_url: http://localhost:5000
    device: cuda
    max_length: 50
    num_beams: 5
    repetition_penalty: 1.3
    no_repeat_ngram_size: 2

pipeline:
  creativity: 0.7

log:
  level: debug
  format: text
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.True(t, cfg.API.GUI)
	assert.Equal(t, int64(1048576), cfg.API.MaxUploadSize)
	assert.Equal(t, "gemini", cfg.Model.LLM.Provider)
	assert.Equal(t, float64(60), cfg.Model.LLM.RequestsPerMinute)
	assert.Equal(t, "blip", cfg.Model.Vision.Provider)
	assert.Equal(t, "cuda", cfg.Model.Vision.Device)
	assert.Equal(t, 50, cfg.Model.Vision.MaxLength)
	assert.Equal(t, 5, cfg.Model.Vision.NumBeams)
	assert.Equal(t, 1.3, cfg.Model.Vision.RepetitionPenalty)
	assert.Equal(t, 2, cfg.Model.Vision.NoRepeatNgramSize)
	assert.Equal(t, 0.7, cfg.Pipeline.Creativity)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_ExpandsEnvAPIKey(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "secret-from-env")
	path := writeConfig(t, `
model:
  llm:
    api_key: ${TEST_GEMINI_KEY}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.Model.LLM.APIKey)
}

// 占位符引用的变量未设置时必须得到空 key，而不是占位符本身——
// 空 key 才会触发构造期的"凭证缺失"错误
func TestLoadConfig_EmptyKeyWhenEnvUnset(t *testing.T) {
	path := writeConfig(t, `
model:
  llm:
    api_key: ${DEFINITELY_UNSET_VAR_42}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Model.LLM.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
