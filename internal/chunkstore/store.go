// Package chunkstore persists Chunk Records to disk, one file per chunk
// under a per-project directory (spec §4.C).
package chunkstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/codesearchcore/codesearchcore/internal/atomicfile"
	"github.com/codesearchcore/codesearchcore/internal/coreerrors"
	"github.com/codesearchcore/codesearchcore/internal/model"
)

// Store persists Chunk Records under <root>/chunks/<project>/<chunk_id>.json
// (spec §6). Every write is atomic; corrupt files are skipped and logged on
// read rather than failing the whole load.
type Store struct {
	root string
	log  *slog.Logger
}

// New creates a Store rooted at <root>/chunks.
func New(root string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{root: filepath.Join(root, "chunks"), log: log}
}

func (s *Store) projectDir(project string) string {
	return filepath.Join(s.root, project)
}

func (s *Store) chunkPath(project, chunkID string) string {
	return filepath.Join(s.projectDir(project), chunkID+".json")
}

// Save atomically writes one chunk to its project directory.
func (s *Store) Save(chunk *model.Chunk) error {
	data, err := json.Marshal(chunk)
	if err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeChunkStoreFailed, err)
	}
	path := s.chunkPath(chunk.ProjectName, chunk.ID)
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeChunkStoreFailed, err)
	}
	return nil
}

// LoadProject returns every chunk persisted for one project. A file that
// fails to decode is logged and skipped rather than failing the whole load
// (spec §4.C).
func (s *Store) LoadProject(project string) ([]*model.Chunk, error) {
	dir := s.projectDir(project)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, coreerrors.Wrap(coreerrors.ErrCodeChunkStoreFailed, err)
	}

	chunks := make([]*model.Chunk, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("failed to read chunk file, skipping", "path", path, "error", err)
			continue
		}
		var chunk model.Chunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			s.log.Warn("failed to decode chunk file, skipping", "path", path, "error", err)
			continue
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, nil
}

// LoadAll returns every chunk across every project directory, keyed by
// project name.
func (s *Store) LoadAll() (map[string][]*model.Chunk, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]*model.Chunk{}, nil
		}
		return nil, coreerrors.Wrap(coreerrors.ErrCodeChunkStoreFailed, err)
	}

	all := make(map[string][]*model.Chunk, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		chunks, err := s.LoadProject(e.Name())
		if err != nil {
			s.log.Warn("failed to load project chunks, skipping", "project", e.Name(), "error", err)
			continue
		}
		all[e.Name()] = chunks
	}
	return all, nil
}

// Clear removes every chunk file belonging to one project, used by
// clear_index and by reindex before re-walking the project root.
func (s *Store) Clear(project string) error {
	dir := s.projectDir(project)
	if err := os.RemoveAll(dir); err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeChunkStoreFailed, err)
	}
	return nil
}
