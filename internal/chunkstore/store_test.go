package chunkstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearchcore/codesearchcore/internal/model"
)

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func mkChunk(project, id string, start, end int) *model.Chunk {
	return &model.Chunk{
		ID:          id,
		ProjectName: project,
		FilePath:    "a.go",
		Language:    "go",
		StartLine:   start,
		EndLine:     end,
		Content:     "package main",
		ChunkType:   model.ChunkTypeBlock,
	}
}

func TestSaveThenLoadProjectRoundTrips(t *testing.T) {
	s := New(t.TempDir(), nil)
	c := mkChunk("demo", "abc123", 1, 10)
	require.NoError(t, s.Save(c))

	loaded, err := s.LoadProject("demo")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, c.ID, loaded[0].ID)
	assert.Equal(t, c.Content, loaded[0].Content)
}

func TestLoadProjectMissingDirReturnsEmpty(t *testing.T) {
	s := New(t.TempDir(), nil)
	loaded, err := s.LoadProject("nope")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadAllGroupsByProject(t *testing.T) {
	s := New(t.TempDir(), nil)
	require.NoError(t, s.Save(mkChunk("a", "1", 1, 5)))
	require.NoError(t, s.Save(mkChunk("a", "2", 6, 10)))
	require.NoError(t, s.Save(mkChunk("b", "3", 1, 5)))

	all, err := s.LoadAll()
	require.NoError(t, err)
	assert.Len(t, all["a"], 2)
	assert.Len(t, all["b"], 1)
}

func TestClearRemovesProjectChunks(t *testing.T) {
	s := New(t.TempDir(), nil)
	require.NoError(t, s.Save(mkChunk("demo", "1", 1, 5)))
	require.NoError(t, s.Clear("demo"))

	loaded, err := s.LoadProject("demo")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadProjectSkipsCorruptFile(t *testing.T) {
	s := New(t.TempDir(), nil)
	require.NoError(t, s.Save(mkChunk("demo", "good", 1, 5)))

	badPath := s.chunkPath("demo", "bad")
	require.NoError(t, writeRaw(badPath, "not json"))

	loaded, err := s.LoadProject("demo")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "good", loaded[0].ID)
}
