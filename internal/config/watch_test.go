package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmate-ai/devmate/pkg/types"
)

func TestNewWatcherNoWatchableDirs(t *testing.T) {
	isolateEnv(t)

	w, err := NewWatcher(filepath.Join(t.TempDir(), "does-not-exist"), func(*types.Config) {})
	require.Error(t, err)
	assert.Nil(t, w)
}

func TestWatcherReloadsOnConfigWrite(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "devmate.yaml", "model: anthropic/claude-3-5-haiku-20241022\n")

	reloaded := make(chan *types.Config, 4)
	w, err := NewWatcher(dir, func(cfg *types.Config) {
		reloaded <- cfg
	})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	writeConfig(t, dir, "devmate.yaml", "model: openai/gpt-4o\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "openai/gpt-4o", cfg.Model)
	case <-time.After(3 * time.Second):
		t.Fatal("config change was not picked up")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "devmate.yaml", "model: openai/gpt-4o\n")

	reloaded := make(chan *types.Config, 4)
	w, err := NewWatcher(dir, func(cfg *types.Config) {
		reloaded <- cfg
	})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0644))

	select {
	case <-reloaded:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(200 * time.Millisecond):
	}
}
