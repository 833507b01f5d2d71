package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)

	cfg, err := Defaults()
	require.NoError(t, err)
	cfg.Generator.Schema = "api/td_api.tl"
	cfg.Generator.ClientOutput = "src/client.rs"
	cfg.Generator.ImplFromType = true
	cfg.Runtime.RequestsPerSecond = 2.5
	cfg.Compat.TDLib = "~1.8"

	path := filepath.Join(t.TempDir(), "nested", ProjectConfigName)
	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_RotatesBackups(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "am.toml")
	cfg, err := Defaults()
	require.NoError(t, err)

	schemas := []string{"one.tl", "two.tl", "three.tl", "four.tl", "five.tl"}
	for _, schema := range schemas {
		cfg.Generator.Schema = schema
		require.NoError(t, Save(cfg, path))
	}

	for suffix, want := range map[string]string{
		"":       "five.tl",
		".back1": "four.tl",
		".back2": "three.tl",
		".back3": "two.tl",
	} {
		data, err := os.ReadFile(path + suffix)
		require.NoError(t, err, suffix)
		assert.Contains(t, string(data), want, suffix)
	}

	_, err = os.Stat(path + ".back4")
	assert.True(t, os.IsNotExist(err))
}

func TestCreateBackup_NoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, createBackup(path))

	_, err := os.Stat(path + ".back1")
	assert.True(t, os.IsNotExist(err))
}
