package chunker

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearchcore/codesearchcore/internal/model"
)

func linesContent(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line " + strconv.Itoa(i+1)
	}
	return strings.Join(lines, "\n")
}

func TestChunkProducesOverlappingWindows(t *testing.T) {
	c := New(DefaultOptions())
	chunks := c.Chunk("demo", "a.go", "go", linesContent(120))

	require.NotEmpty(t, chunks)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 50, chunks[0].EndLine)
	assert.Equal(t, 41, chunks[1].StartLine) // stride = 50-10 = 40
	assert.Equal(t, 90, chunks[1].EndLine)
}

func TestChunkLastWindowStopsAtEOF(t *testing.T) {
	c := New(DefaultOptions())
	chunks := c.Chunk("demo", "a.go", "go", linesContent(55))

	last := chunks[len(chunks)-1]
	assert.Equal(t, 55, last.EndLine)
}

func TestChunkEmptyContentProducesNoChunks(t *testing.T) {
	c := New(DefaultOptions())
	chunks := c.Chunk("demo", "empty.go", "go", "   \n\n  ")
	assert.Empty(t, chunks)
}

func TestChunkSkipsWindowsThatAreEntirelyBlank(t *testing.T) {
	c := New(Options{ChunkSize: 5, ChunkOverlap: 1})
	content := "a\nb\nc\nd\ne\n\n\n\n\n\nf\ng"
	chunks := c.Chunk("demo", "a.go", "go", content)

	for _, ch := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(ch.Content))
	}
}

func TestChunkLinesAreOneIndexedInclusive(t *testing.T) {
	c := New(Options{ChunkSize: 10, ChunkOverlap: 2})
	chunks := c.Chunk("demo", "a.go", "go", linesContent(10))

	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 10, chunks[0].EndLine)
}

func TestChunkIDIsStableForSamePositions(t *testing.T) {
	c := New(DefaultOptions())
	a := c.Chunk("demo", "a.go", "go", linesContent(60))
	b := c.Chunk("demo", "a.go", "go", linesContent(60))

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}

func TestClassifyRecognizesPerLanguageSubstrings(t *testing.T) {
	cases := []struct {
		language string
		content  string
		want     model.ChunkType
	}{
		{"swift", "func speak() {}", model.ChunkTypeFunction},
		{"swift", "class Widget {}", model.ChunkTypeClass},
		{"swift", "struct Point { var x: Int }", model.ChunkTypeStruct},
		{"swift", "enum Direction { case north }", model.ChunkTypeEnum},
		{"swift", "protocol Animal { static var name: String }", model.ChunkTypeProtocol},
		{"python", "def compute(): pass", model.ChunkTypeFunction},
		{"python", "class Repo: pass", model.ChunkTypeClass},
		{"javascript", "function add(a, b) { return a + b }", model.ChunkTypeFunction},
		{"javascript", "const x = 1", model.ChunkTypeDeclaration},
		{"typescript", "class Widget {}", model.ChunkTypeClass},
		{"java", "public class Foo {}", model.ChunkTypeClass},
		{"java", "private void run() {}", model.ChunkTypeMethod},
		{"go", "func Add(a, b int) int { return a + b }", model.ChunkTypeBlock},
		{"swift", "// just a comment\nfoo(bar)", model.ChunkTypeBlock},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classify(tc.language, tc.content), tc.content)
	}
}

func TestLanguageForPathRecognizesTable(t *testing.T) {
	lang, ok := LanguageForPath("src/Foo.swift")
	require.True(t, ok)
	assert.Equal(t, "swift", lang)

	_, ok = LanguageForPath("README.md")
	assert.False(t, ok)
}
