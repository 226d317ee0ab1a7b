package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 50000, cfg.Convert.Threshold)
	assert.Equal(t, "figma", cfg.Convert.Prompt)
	assert.Equal(t, "figma-markup", cfg.Output.Dir)
	assert.Equal(t, 0, cfg.Convert.MaxConcurrent)
	assert.Error(t, cfg.Validate())
}

func TestLoadEnvFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "figma-markup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
figma:
  token: from-file
genai:
  model: gemini-2.5-pro
convert:
  threshold: 1200
  max_concurrent: 4
`), 0o644))

	t.Setenv("FIGMA_MARKUP_GENAI_API_KEY", "env-key")
	t.Setenv("FIGMA_MARKUP_GENAI_TEMPERATURE", "0.5")
	t.Setenv("FIGMA_MARKUP_GENAI_BASE_URL", "http://127.0.0.1:9999")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "", "")
	flags.Int("threshold", 50000, "")
	require.NoError(t, flags.Parse([]string{"--model", "gemini-2.5-flash-lite"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Figma.Token)
	assert.Equal(t, "env-key", cfg.GenAI.APIKey)
	require.NotNil(t, cfg.GenAI.Temperature)
	assert.InDelta(t, 0.5, *cfg.GenAI.Temperature, 1e-6)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.GenAI.BaseURL)
	// Changed flags win, unchanged flags do not override the file.
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GenAI.Model)
	assert.Equal(t, 1200, cfg.Convert.Threshold)
	assert.Equal(t, 4, cfg.Convert.MaxConcurrent)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}
