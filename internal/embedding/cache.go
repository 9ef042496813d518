package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/codesearchcore/codesearchcore/internal/atomicfile"
	"github.com/codesearchcore/codesearchcore/internal/coreerrors"
	"github.com/codesearchcore/codesearchcore/internal/filelock"
)

// Cache is the on-disk, content-addressed embedding cache (spec §4.B).
// Entries are keyed by the SHA-256 hex digest of the text, so the same
// chunk content anywhere in any project reuses one cached vector,
// independent of the project or file it came from.
type Cache struct {
	root string
	lock *filelock.Lock
	log  *slog.Logger
}

// NewCache creates a cache rooted at <root>/embeddings.
func NewCache(root string, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	dir := filepath.Join(root, "embeddings")
	return &Cache{
		root: dir,
		lock: filelock.New(filepath.Join(dir, ".cache.lock")),
		log:  log,
	}
}

// Key returns the cache key for the given text (exported so callers, e.g.
// an in-memory front layer, can share the same addressing scheme).
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.root, key+".vec")
}

// Get returns the cached vector for text, if present. A corrupt cache
// entry is treated as a miss: it is logged and the stale file is removed
// so the next Put can replace it (spec §7 CacheReadCorrupt is recovered
// locally, not surfaced).
func (c *Cache) Get(text string) ([]float32, bool) {
	key := Key(text)
	path := c.pathFor(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		c.log.Warn("embedding cache entry corrupt, treating as miss",
			"key", key, "error", err)
		_ = os.Remove(path)
		return nil, false
	}
	return vec, true
}

// Put stores vec under text's content key, writing atomically so a reader
// never observes a partially-written file.
func (c *Cache) Put(text string, vec []float32) error {
	key := Key(text)
	data, err := json.Marshal(vec)
	if err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeCacheWriteFailed, fmt.Errorf("marshal embedding: %w", err))
	}

	if err := c.lock.Lock(); err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeCacheWriteFailed, err)
	}
	defer func() { _ = c.lock.Unlock() }()

	if err := atomicfile.Write(c.pathFor(key), data, 0o644); err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeCacheWriteFailed, err)
	}
	return nil
}

// Clear removes every cache file under the cache root (spec §4.B's third
// operation), leaving the directory itself in place.
func (c *Cache) Clear() error {
	if err := c.lock.Lock(); err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeCacheWriteFailed, err)
	}
	defer func() { _ = c.lock.Unlock() }()

	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return coreerrors.Wrap(coreerrors.ErrCodeCacheWriteFailed, err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".vec" {
			continue
		}
		if err := os.Remove(filepath.Join(c.root, e.Name())); err != nil && !os.IsNotExist(err) {
			return coreerrors.Wrap(coreerrors.ErrCodeCacheWriteFailed, err)
		}
	}
	return nil
}
