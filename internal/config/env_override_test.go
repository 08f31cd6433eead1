package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_Providers(t *testing.T) {
	t.Run("GEMINI_API_KEY sets provider if empty", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gem-key")
		t.Setenv("XAI_API_KEY", "")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gem-key", cfg.LLM.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("GEMINI_API_KEY does not override configured provider", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gem-key")

		cfg := &Config{LLM: LLMConfig{Provider: "grok"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "grok", cfg.LLM.Provider)
	})

	t.Run("XAI_API_KEY only applies to grok provider", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("XAI_API_KEY", "xai-key")

		cfg := &Config{LLM: LLMConfig{Provider: "gemini"}}
		cfg.applyEnvOverrides()
		assert.Empty(t, cfg.LLM.APIKey)

		cfg = &Config{LLM: LLMConfig{Provider: "grok"}}
		cfg.applyEnvOverrides()
		assert.Equal(t, "xai-key", cfg.LLM.APIKey)
	})

	t.Run("WINSTON_API_KEY and ZBEAM_DB", func(t *testing.T) {
		t.Setenv("WINSTON_API_KEY", "win-key")
		t.Setenv("ZBEAM_DB", "/tmp/other.db")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "win-key", cfg.Quality.WinstonAPIKey)
		assert.Equal(t, "/tmp/other.db", cfg.Data.DatabasePath)
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("XAI_API_KEY", "")

	cfg := DefaultConfig()
	cfg.Quality.Percentile = 40
	cfg.Research.Simulated = true

	path := t.TempDir() + "/zbeam.yaml"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, loaded.Quality.Percentile)
	assert.True(t, loaded.Research.Simulated)
}
