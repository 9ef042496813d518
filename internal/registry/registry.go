// Package registry maintains the Project Registry (spec §4.D): a single
// JSON document mapping project name to metadata, persisted atomically.
package registry

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/codesearchcore/codesearchcore/internal/atomicfile"
	"github.com/codesearchcore/codesearchcore/internal/filelock"
	"github.com/codesearchcore/codesearchcore/internal/model"
)

// document is the on-disk shape of project_registry.json.
type document struct {
	Projects map[string]*model.ProjectMetadata `json:"projects"`
}

// Registry is the single source of truth for which projects are known and
// their indexing state. All reads and writes go through an owned mutex
// (spec §5: single-writer components) and every rewrite is atomic.
type Registry struct {
	mu   sync.RWMutex
	path string
	lock *filelock.Lock
	log  *slog.Logger

	projects map[string]*model.ProjectMetadata
}

// Load reads <root>/project_registry.json. A missing file starts an empty
// registry; a torn/corrupt file falls back to an empty registry rather than
// failing startup (spec §9).
func Load(root string, log *slog.Logger) (*Registry, error) {
	if log == nil {
		log = slog.Default()
	}
	path := filepath.Join(root, "project_registry.json")
	r := &Registry{
		path:     path,
		lock:     filelock.New(path + ".lock"),
		log:      log,
		projects: make(map[string]*model.ProjectMetadata),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		log.Warn("failed to read project registry, starting empty", "path", path, "error", err)
		return r, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn("project registry file is corrupt, starting empty", "path", path, "error", err)
		return r, nil
	}
	if doc.Projects != nil {
		r.projects = doc.Projects
	}
	return r, nil
}

// Register inserts or replaces a project's metadata and persists the
// registry atomically.
func (r *Registry) Register(meta *model.ProjectMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[meta.Name] = meta.Clone()
	return r.persistLocked()
}

// Unregister removes a project from the registry, if present.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, name)
	return r.persistLocked()
}

// Lookup returns a project's metadata and whether it exists.
func (r *Registry) Lookup(name string) (*model.ProjectMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.projects[name]
	if !ok {
		return nil, false
	}
	return meta.Clone(), true
}

// List returns every registered project's metadata.
func (r *Registry) List() []*model.ProjectMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.ProjectMetadata, 0, len(r.projects))
	for _, meta := range r.projects {
		out = append(out, meta.Clone())
	}
	return out
}

// persistLocked serializes and atomically rewrites the registry file. The
// caller must hold r.mu.
func (r *Registry) persistLocked() error {
	if err := r.lock.Lock(); err != nil {
		return err
	}
	defer r.lock.Unlock()

	doc := document{Projects: r.projects}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return err
	}
	return atomicfile.Write(r.path, data, 0o644)
}
