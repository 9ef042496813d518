package cmd

import (
	"context"
	"log/slog"

	"github.com/codesearchcore/codesearchcore/internal/chunker"
	"github.com/codesearchcore/codesearchcore/internal/chunkstore"
	"github.com/codesearchcore/codesearchcore/internal/config"
	"github.com/codesearchcore/codesearchcore/internal/dispatcher"
	"github.com/codesearchcore/codesearchcore/internal/embedding"
	"github.com/codesearchcore/codesearchcore/internal/indexer"
	"github.com/codesearchcore/codesearchcore/internal/model"
	"github.com/codesearchcore/codesearchcore/internal/queue"
	"github.com/codesearchcore/codesearchcore/internal/registry"
	"github.com/codesearchcore/codesearchcore/internal/vectorindex"
)

// buildDispatcher wires every core component from cfg into a Dispatcher,
// the CLI's only entry point into the core (spec §1: the command layer
// carries no business logic of its own).
func buildDispatcher(cfg *config.Config, log *slog.Logger) (*dispatcher.Dispatcher, error) {
	reg, err := registry.Load(cfg.CacheRoot, log)
	if err != nil {
		return nil, err
	}

	store := chunkstore.New(cfg.CacheRoot, log)
	vecIdx := vectorindex.New(cfg.MaxMemoryBytes, log)
	if err := vecIdx.Preload(store); err != nil {
		log.Warn("failed to preload vector index", "error", err)
	}

	embedder := embedding.New(cfg.CacheRoot, log)
	ch := chunker.New(chunker.Options{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap})
	ix := indexer.New(reg, store, ch, embedder, vecIdx, log)
	q := queue.New(cfg.MaxConcurrentIndexers, log)

	for _, meta := range ix.LegacyMigrations() {
		log.Info("scheduling legacy re-index", "project", meta.Name, "file_count", meta.FileCount)
		projectName := meta.Name
		q.Enqueue(context.Background(), projectName, model.JobPriorityHigh, func(ctx context.Context, jobID string) (int, int, error) {
			if err := ix.Reindex(ctx, projectName); err != nil {
				return 0, 0, err
			}
			if updated, ok := reg.Lookup(projectName); ok {
				return updated.FileCount, updated.ChunkCount, nil
			}
			return 0, 0, nil
		})
	}

	return dispatcher.New(reg, vecIdx, q, ix, embedder, log), nil
}
