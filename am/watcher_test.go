package am

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcher_Reload(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), ProjectConfigName)
	writeFile(t, path, "[generator]\nschema = \"first.tl\"\n")

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Stop()
	cw.SetDebounce(20 * time.Millisecond)

	reloaded := make(chan *Config, 8)
	cw.OnReload(func(cfg *Config) error {
		reloaded <- cfg
		return nil
	})
	cw.Start()

	writeFile(t, path, "[generator]\nschema = \"second.tl\"\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "second.tl", cfg.Generator.Schema)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigName)
	writeFile(t, path, "")

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Stop()
	cw.SetDebounce(10 * time.Millisecond)

	reloaded := make(chan *Config, 8)
	cw.OnReload(func(cfg *Config) error {
		reloaded <- cfg
		return nil
	})
	cw.Start()

	writeFile(t, filepath.Join(dir, "unrelated.toml"), "x = 1\n")
	writeFile(t, path+".back1", "x = 1\n")

	select {
	case <-reloaded:
		t.Fatal("unexpected reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestIsBackupFile(t *testing.T) {
	tests := map[string]bool{
		"am.toml.back1":       true,
		"/x/tlgen.toml.back3": true,
		"am.toml":             false,
		"am.toml.backup":      false,
	}
	for path, want := range tests {
		assert.Equal(t, want, isBackupFile(path), path)
	}
}

func TestGlobalWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, "")
	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Stop()

	SetGlobalWatcher(cw)
	defer SetGlobalWatcher(nil)
	assert.Same(t, cw, GetGlobalWatcher())

	cw.MarkOwnWrite()
	assert.True(t, cw.checkOwnWrite())
	assert.False(t, cw.checkOwnWrite(), "flag clears after one check")
}
