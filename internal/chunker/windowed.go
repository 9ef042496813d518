package chunker

import (
	"strings"

	"github.com/codesearchcore/codesearchcore/internal/model"
)

// Options configures the windowed chunker (spec §4.E). The zero value is
// not usable; use DefaultOptions or a config-derived value.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

// DefaultOptions returns the spec's fixed default window (chunk_size=50,
// overlap=10).
func DefaultOptions() Options {
	return Options{ChunkSize: 50, ChunkOverlap: 10}
}

// Chunker splits file content into fixed-size, overlapping line windows.
// Unlike an AST-aware chunker it needs no per-language parser; the trade
// is chunk boundaries that don't respect syntax, which spec §4.E accepts
// explicitly.
type Chunker struct {
	opts Options
}

// New creates a Chunker. If the caller passes a negative overlap or one not
// below opts.ChunkSize, opts.ChunkOverlap is reset to opts.ChunkSize/5, so a
// bad value can never produce a chunker that doesn't advance. (The config
// layer applies its own, different clamp: ChunkSize-1.)
func New(opts Options) *Chunker {
	if opts.ChunkSize < 1 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = opts.ChunkSize / 5
	}
	return &Chunker{opts: opts}
}

// Chunk splits content (the full text of one file) into Chunk records.
// filePath is stored project-relative on the resulting chunks, per
// internal/model's convention. language should come from LanguageForPath;
// an empty/unrecognized language still chunks, tagged with an empty
// Language field, since spec §4.E chunks whatever file the caller hands it
// and leaves extension filtering to the caller (the scanner).
func (c *Chunker) Chunk(projectName, filePath, language, content string) []*model.Chunk {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	stride := c.opts.ChunkSize - c.opts.ChunkOverlap

	var chunks []*model.Chunk
	for start := 0; start < len(lines); start += stride {
		end := start + c.opts.ChunkSize
		if end > len(lines) {
			end = len(lines)
		}

		windowContent := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(windowContent) != "" {
			chunks = append(chunks, &model.Chunk{
				ID:          chunkID(filePath, start+1, end),
				ProjectName: projectName,
				FilePath:    filePath,
				Language:    language,
				StartLine:   start + 1, // 1-indexed
				EndLine:     end,       // inclusive
				Content:     windowContent,
				ChunkType:   classify(language, windowContent),
			})
		}

		if end >= len(lines) {
			break
		}
	}
	return chunks
}
