package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "light", cfg.Export.Theme)
	assert.Equal(t, filepath.Join(cfg.DataDir, "folio.db"), cfg.SnapshotPath())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /tmp/folio-test
export:
  theme: dark
server:
  addr: ":9000"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/folio-test", cfg.DataDir)
	assert.Equal(t, "dark", cfg.Export.Theme)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	// Unset fields keep their defaults.
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\t not yaml {"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("FOLIO_BACKEND_URL", "http://localhost:8000")
	t.Setenv("FOLIO_DATA_DIR", "/tmp/folio-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.AI.OpenAIAPIKey)
	assert.Equal(t, "test-key", cfg.AI.GeminiAPIKey)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "/tmp/folio-env", cfg.DataDir)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "folio.yaml")
	cfg := DefaultConfig()
	cfg.Export.Theme = "dark"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Export.Theme)
}
