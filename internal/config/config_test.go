package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/cos/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("COS_CONFIG", "")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Engine)
	assert.Equal(t, "universal", cfg.Classifier.Mode)
	assert.Equal(t, 400*time.Millisecond, cfg.Classifier.DebounceWindow)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.Learning.AutomationThreshold)
	assert.Equal(t, "./data/cos.db", cfg.DBPath())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "cos.yaml", `
storage:
  engine: memory
classifier:
  mode: fast
  debounce_window: 350ms
llm:
  provider: ollama
  ollama_model: qwen2.5:7b
learning:
  automation_threshold: 5
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Engine)
	assert.Equal(t, "fast", cfg.Classifier.Mode)
	assert.Equal(t, 350*time.Millisecond, cfg.Classifier.DebounceWindow)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "qwen2.5:7b", cfg.LLM.OllamaModel)
	assert.Equal(t, 5, cfg.Learning.AutomationThreshold)
	// Untouched values keep their defaults
	assert.Equal(t, "http://localhost:11434", cfg.LLM.OllamaURL)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "cos.yaml", "classifier:\n  mode: fast\n")
	t.Setenv("COS_CLASSIFIER_MODE", "category")
	t.Setenv("COS_DEBOUNCE_WINDOW", "450ms")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "category", cfg.Classifier.Mode)
	assert.Equal(t, 450*time.Millisecond, cfg.Classifier.DebounceWindow)
}

func TestLoad_InvalidEnvNumberFallsBack(t *testing.T) {
	t.Setenv("COS_AUTOMATION_THRESHOLD", "lots")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Learning.AutomationThreshold)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := writeFile(t, "test.env", "COS_OLLAMA_MODEL=from-dotenv\n")
	t.Setenv("COS_ENV_FILE", path)
	t.Cleanup(func() { _ = os.Unsetenv("COS_OLLAMA_MODEL") })

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.LLM.OllamaModel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "storage: [unterminated")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown engine", func(c *config.Config) { c.Storage.Engine = "mongo" }},
		{"redis without url", func(c *config.Config) { c.Storage.Engine = "redis" }},
		{"unknown mode", func(c *config.Config) { c.Classifier.Mode = "neural" }},
		{"negative debounce", func(c *config.Config) { c.Classifier.DebounceWindow = -time.Second }},
		{"unknown provider", func(c *config.Config) { c.LLM.Provider = "gpt" }},
		{"zero timeout", func(c *config.Config) { c.LLM.Timeout = 0 }},
		{"zero poll", func(c *config.Config) { c.Watcher.PollInterval = 0 }},
		{"zero threshold", func(c *config.Config) { c.Learning.AutomationThreshold = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, config.Defaults().Validate())
}
