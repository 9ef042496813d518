// Package model defines the core's persisted and in-memory data types
// (spec §3): Chunk Records, Project Metadata, Indexing Jobs, and the
// in-memory index entry/result shapes built from them.
package model

import (
	"fmt"
	"strings"
)

// ChunkType is the coarse tag inferred from a chunk's content (spec §3/§4.E).
type ChunkType string

const (
	ChunkTypeFunction    ChunkType = "function"
	ChunkTypeClass       ChunkType = "class"
	ChunkTypeStruct      ChunkType = "struct"
	ChunkTypeEnum        ChunkType = "enum"
	ChunkTypeProtocol    ChunkType = "protocol"
	ChunkTypeMethod      ChunkType = "method"
	ChunkTypeDeclaration ChunkType = "declaration"
	ChunkTypeBlock       ChunkType = "block"
)

// Chunk is the immutable unit of indexing (spec §3 "Chunk Record").
//
// FilePath is stored project-relative on disk (see spec §9's open question,
// resolved in SPEC_FULL.md): the absolute path is reconstructed at read time
// by joining a project's RootPath with this field, which keeps the on-disk
// chunk store portable across machines and checkouts.
type Chunk struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	FilePath    string    `json:"file_path"`
	Language    string    `json:"language"`
	StartLine   int       `json:"start_line"`
	EndLine     int       `json:"end_line"`
	Content     string    `json:"content"`
	ChunkType   ChunkType `json:"chunk_type"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Validate checks the invariants from spec §3/§8:
//   - 1 <= start_line <= end_line
//   - content is non-empty after trimming
//   - if embedding is present, its length equals dimension (checked by caller,
//     which knows the provider's dimension at index time)
func (c *Chunk) Validate() error {
	if c.StartLine < 1 {
		return fmt.Errorf("chunk %s: start_line must be >= 1, got %d", c.ID, c.StartLine)
	}
	if c.EndLine < c.StartLine {
		return fmt.Errorf("chunk %s: end_line %d < start_line %d", c.ID, c.EndLine, c.StartLine)
	}
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("chunk %s: content is empty after trimming", c.ID)
	}
	return nil
}

// HasEmbedding reports whether the chunk carries a non-empty embedding.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}
