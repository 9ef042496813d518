package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPopulatesEveryField(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.CacheRoot)
	assert.Equal(t, DefaultMaxMemoryBytes, cfg.MaxMemoryBytes)
	assert.Equal(t, DefaultMaxConcurrentIndexers, cfg.MaxConcurrentIndexers)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, cfg.ChunkOverlap)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 80\nchunk_overlap: 20\nproject_paths:\n  - /repo/a\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.ChunkSize)
	assert.Equal(t, 20, cfg.ChunkOverlap)
	assert.Equal(t, []string{"/repo/a"}, cfg.ProjectPaths)
}

func TestLoadClampsOverlapGreaterThanChunkSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 10\nchunk_overlap: 50\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Less(t, cfg.ChunkOverlap, cfg.ChunkSize)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.ChunkSize = 64
	cfg.DefaultProjectFilter = "demo"

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, loaded.ChunkSize)
	assert.Equal(t, "demo", loaded.DefaultProjectFilter)
}

func TestEnvOverrideWinsOverFile(t *testing.T) {
	t.Setenv("CODESEARCH_CACHE_ROOT", "/tmp/override-root")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override-root", cfg.CacheRoot)
}
