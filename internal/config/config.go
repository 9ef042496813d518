// Package config loads and validates the core's configuration (spec §6):
// the on-disk cache root, chunker parameters, memory ceiling, queue
// concurrency, startup project list, and default search scope.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/codesearchcore/codesearchcore/internal/atomicfile"
)

// Chunker defaults (spec §4.E).
const (
	DefaultChunkSize    = 50
	DefaultChunkOverlap = 10
)

// DefaultMaxMemoryBytes is the in-memory index ceiling before eviction
// (spec §4.H: "default 100 GiB").
const DefaultMaxMemoryBytes int64 = 100 * 1024 * 1024 * 1024

// DefaultMaxConcurrentIndexers is the queue's default concurrency limit
// (spec §4.I: "default 1").
const DefaultMaxConcurrentIndexers = 1

// Config is the complete configuration surface enumerated in spec §6.
// Every field is optional; zero values are replaced by defaults on Load.
type Config struct {
	// CacheRoot overrides the on-disk root (default: OS cache dir / "code-search").
	CacheRoot string `yaml:"cache_root" json:"cache_root"`

	// MaxMemoryBytes is the in-memory index ceiling before eviction.
	MaxMemoryBytes int64 `yaml:"max_memory_bytes" json:"max_memory_bytes"`

	// MaxConcurrentIndexers is the queue concurrency limit.
	MaxConcurrentIndexers int `yaml:"max_concurrent_indexers" json:"max_concurrent_indexers"`

	// ChunkSize overrides the Chunker's window size in lines.
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`

	// ChunkOverlap overrides the Chunker's window overlap in lines.
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`

	// ProjectPaths lists directories to auto-index at startup. It is loaded,
	// merged and saved with the rest of the config; no startup code reads
	// it, so listed directories are not indexed automatically.
	ProjectPaths []string `yaml:"project_paths" json:"project_paths"`

	// DefaultProjectFilter names the project to scope searches to when no
	// filter is supplied. It is loaded, merged (including from
	// CODESEARCH_DEFAULT_PROJECT_FILTER) and saved; neither the CLI nor the
	// dispatcher reads it, so unfiltered searches still cover every project.
	DefaultProjectFilter string `yaml:"default_project_filter" json:"default_project_filter"`
}

// Default returns a Config populated with every default value named in spec §6/§4.
func Default() *Config {
	return &Config{
		CacheRoot:             DefaultCacheRoot(),
		MaxMemoryBytes:        DefaultMaxMemoryBytes,
		MaxConcurrentIndexers: DefaultMaxConcurrentIndexers,
		ChunkSize:             DefaultChunkSize,
		ChunkOverlap:          DefaultChunkOverlap,
		ProjectPaths:          nil,
		DefaultProjectFilter:  "",
	}
}

// DefaultCacheRoot returns the OS cache directory joined with "code-search".
func DefaultCacheRoot() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "code-search")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "code-search")
	}
	return filepath.Join(home, ".cache", "code-search")
}

// Load reads a YAML config file at path, merges it over Default(), applies
// env var overrides, and validates the result. A missing file is not an
// error — defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			var parsed Config
			if err := yaml.Unmarshal(data, &parsed); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			cfg.mergeWith(&parsed)
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaultsForZero()
	cfg.clampChunkParams()

	return cfg, nil
}

// Save writes the config as YAML atomically (write-temp-then-rename),
// matching the on-disk atomicity contract used throughout the core (spec §6/§9).
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return atomicfile.Write(path, data, 0o644)
}

// mergeWith overlays non-zero fields from other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.CacheRoot != "" {
		c.CacheRoot = other.CacheRoot
	}
	if other.MaxMemoryBytes != 0 {
		c.MaxMemoryBytes = other.MaxMemoryBytes
	}
	if other.MaxConcurrentIndexers != 0 {
		c.MaxConcurrentIndexers = other.MaxConcurrentIndexers
	}
	if other.ChunkSize != 0 {
		c.ChunkSize = other.ChunkSize
	}
	if other.ChunkOverlap != 0 {
		c.ChunkOverlap = other.ChunkOverlap
	}
	if len(other.ProjectPaths) > 0 {
		c.ProjectPaths = other.ProjectPaths
	}
	if other.DefaultProjectFilter != "" {
		c.DefaultProjectFilter = other.DefaultProjectFilter
	}
}

// applyEnvOverrides applies CODESEARCH_* environment variable overrides,
// the highest-precedence layer, matching the teacher's env-override convention.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CODESEARCH_CACHE_ROOT"); v != "" {
		c.CacheRoot = v
	}
	if v := os.Getenv("CODESEARCH_DEFAULT_PROJECT_FILTER"); v != "" {
		c.DefaultProjectFilter = v
	}
}

// applyDefaultsForZero fills any still-zero field with its documented default.
func (c *Config) applyDefaultsForZero() {
	if c.CacheRoot == "" {
		c.CacheRoot = DefaultCacheRoot()
	}
	if c.MaxMemoryBytes <= 0 {
		c.MaxMemoryBytes = DefaultMaxMemoryBytes
	}
	if c.MaxConcurrentIndexers <= 0 {
		c.MaxConcurrentIndexers = DefaultMaxConcurrentIndexers
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap < 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
}

// clampChunkParams enforces spec §8's boundary rule: overlap must be
// strictly less than chunk size. Rather than rejecting the config outright,
// it clamps to a safe overlap, matching the spec's "reject or clamp" choice.
func (c *Config) clampChunkParams() {
	if c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = c.ChunkSize - 1
		if c.ChunkOverlap < 0 {
			c.ChunkOverlap = 0
		}
	}
}

// IndexWorkers returns the number of logical CPUs to use for parallel
// search batching (spec §4.H step 2).
func IndexWorkers() int {
	return runtime.NumCPU()
}
