// Package indexer orchestrates the walk-chunk-embed-persist pipeline that
// turns a project directory into chunk records (spec §4.G).
package indexer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/codesearchcore/codesearchcore/internal/chunker"
	"github.com/codesearchcore/codesearchcore/internal/chunkstore"
	"github.com/codesearchcore/codesearchcore/internal/coreerrors"
	"github.com/codesearchcore/codesearchcore/internal/embedding"
	"github.com/codesearchcore/codesearchcore/internal/model"
	"github.com/codesearchcore/codesearchcore/internal/registry"
	"github.com/codesearchcore/codesearchcore/internal/scanner"
)

// legacyFileCountThreshold is the file_count above which a project
// discovered at startup is scheduled for a high-priority re-index (spec
// §4.G "legacy auto-migration").
const legacyFileCountThreshold = 5000

// Sink receives freshly embedded chunks as they're produced, so a running
// In-Memory Vector Index stays current without waiting for a restart's
// preload. A nil Sink disables this (the caller relies on a later Preload).
type Sink interface {
	Add(chunkID string, vector []float32, meta model.ChunkMeta) bool
}

// Indexer ties the Chunker, Sub-project Detector, Chunk Store, Project
// Registry, and an Embedder together into the single-project and
// multi-project indexing operations of spec §4.G.
type Indexer struct {
	registry *registry.Registry
	store    *chunkstore.Store
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	sink     Sink
	log      *slog.Logger
}

// New creates an Indexer. sink may be nil.
func New(reg *registry.Registry, store *chunkstore.Store, ch *chunker.Chunker, embedder embedding.Embedder, sink Sink, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{registry: reg, store: store, chunker: ch, embedder: embedder, sink: sink, log: log}
}

// Index validates path, detects sub-projects within it, and indexes each
// one (or path itself, if it is a single project). A sub-project's failure
// is logged but does not fail the others (spec §4.G).
func (ix *Indexer) Index(ctx context.Context, path string) error {
	if !scanner.IsDir(path) {
		return coreerrors.InvalidProjectPath(path, nil)
	}

	subs, err := scanner.DetectSubprojects(ctx, path)
	if err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeInternal, err)
	}

	if len(subs) == 0 {
		return ix.indexSingle(ctx, path, filepath.Base(filepath.Clean(path)))
	}

	for _, sub := range subs {
		if err := ix.indexSingle(ctx, sub.Path, sub.Name); err != nil {
			ix.log.Error("sub-project index failed", "name", sub.Name, "path", sub.Path, "error", err)
		}
	}
	return nil
}

// indexSingle walks one project root, chunking and embedding every
// supported file, and records the resulting metadata in the registry.
// Per-file and per-chunk failures are logged and skipped (spec §7): only an
// invalid root path fails the whole operation.
func (ix *Indexer) indexSingle(ctx context.Context, rootPath, projectName string) (err error) {
	now := time.Now().UTC()
	indexedAt := now
	if existing, ok := ix.registry.Lookup(projectName); ok {
		indexedAt = existing.IndexedAt
	}

	_ = ix.registry.Register(&model.ProjectMetadata{
		Name:          projectName,
		RootPath:      rootPath,
		IndexedAt:     indexedAt,
		LastUpdatedAt: now,
		IndexStatus:   model.IndexStatusIndexing,
		Languages:     map[string]int{},
	})

	var fileCount, chunkCount, lineCount int
	languages := make(map[string]int)
	status := model.IndexStatusComplete

	for f := range scanner.Walk(ctx, rootPath) {
		raw, readErr := os.ReadFile(f.AbsPath)
		if readErr != nil {
			ix.log.Warn("failed to read file, skipping", "path", f.AbsPath, "error", readErr)
			status = model.IndexStatusPartial
			continue
		}
		if !utf8.Valid(raw) {
			ix.log.Warn("file is not valid UTF-8, skipping", "path", f.AbsPath)
			status = model.IndexStatusPartial
			continue
		}

		content := string(raw)
		fileCount++
		lineCount += strings.Count(content, "\n") + 1
		languages[f.Language]++

		for _, c := range ix.chunker.Chunk(projectName, f.Path, f.Language, content) {
			vec, embedErr := ix.embedder.Embed(ctx, c.Content)
			if embedErr != nil {
				ix.log.Warn("embedding failed, persisting chunk without embedding",
					"chunk", c.ID, "file", f.Path, "error", embedErr)
			} else {
				c.Embedding = vec
				if ix.sink != nil {
					ix.sink.Add(c.ID, vec, model.ChunkMeta{
						Project: projectName, File: c.FilePath, Language: c.Language,
						StartLine: c.StartLine, EndLine: c.EndLine, ContentSnippet: c.Content,
					})
				}
			}

			if saveErr := ix.store.Save(c); saveErr != nil {
				ix.log.Warn("failed to persist chunk, skipping", "chunk", c.ID, "error", saveErr)
				continue
			}
			chunkCount++
		}
	}

	return ix.registry.Register(&model.ProjectMetadata{
		Name:          projectName,
		RootPath:      rootPath,
		IndexedAt:     indexedAt,
		LastUpdatedAt: time.Now().UTC(),
		FileCount:     fileCount,
		ChunkCount:    chunkCount,
		LineCount:     lineCount,
		Languages:     languages,
		IndexStatus:   status,
	})
}

// Reindex clears a known project's chunks and re-runs Index against its
// registered root path (spec §4.G). Unknown projects surface
// ErrCodeProjectNotFound.
func (ix *Indexer) Reindex(ctx context.Context, projectName string) error {
	meta, ok := ix.registry.Lookup(projectName)
	if !ok {
		return coreerrors.ProjectNotFound(projectName)
	}
	if err := ix.store.Clear(projectName); err != nil {
		return err
	}
	return ix.Index(ctx, meta.RootPath)
}

// ClearProject removes a project's persisted chunks, used by clear_index
// (spec §4.J). It does not touch the registry entry; the caller unregisters
// separately.
func (ix *Indexer) ClearProject(projectName string) error {
	return ix.store.Clear(projectName)
}

// LegacyMigrations returns every registered project whose file_count
// exceeds legacyFileCountThreshold and whose root_path still exists on
// disk — candidates for a high-priority re-index at startup (spec §4.G).
// A project whose root_path no longer exists is logged and skipped rather
// than scheduled.
func (ix *Indexer) LegacyMigrations() []*model.ProjectMetadata {
	var candidates []*model.ProjectMetadata
	for _, meta := range ix.registry.List() {
		if meta.FileCount <= legacyFileCountThreshold {
			continue
		}
		if !scanner.IsDir(meta.RootPath) {
			ix.log.Warn("legacy project root_path missing, skipping migration",
				"project", meta.Name, "root_path", meta.RootPath)
			continue
		}
		candidates = append(candidates, meta)
	}
	return candidates
}
