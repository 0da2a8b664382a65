package orion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oliverbestmann/selis/glimpse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderWatcher(t *testing.T) {
	dir := t.TempDir()

	watcher, err := WatchShaders(dir)
	require.NoError(t, err)
	defer watcher.Close()

	// not a shader
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	path := filepath.Join(dir, "raycast.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("@compute fn main() {}"), 0o644))

	select {
	case event := <-watcher.Events():
		assert.Equal(t, glimpse.ShaderChanged{Path: path}, event)

	case <-time.After(5 * time.Second):
		t.Fatal("no shader change event received")
	}
}

func TestWatchShadersMissingDirectory(t *testing.T) {
	_, err := WatchShaders(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
