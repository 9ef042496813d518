package embedding

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryCacheSize is the number of recently used vectors kept in
// memory in front of the on-disk content-addressed cache.
const DefaultMemoryCacheSize = 1000

// CachedEmbedder wraps an Embedder with the disk-backed content-addressed
// Cache (spec §4.B), optionally fronted by an in-memory LRU layer so a
// hot query path doesn't pay a file read on every repeat.
type CachedEmbedder struct {
	inner Embedder
	disk  *Cache
	mem   *lru.Cache[string, []float32]
}

// NewCachedEmbedder wraps inner with disk as its persistent cache and an
// in-memory LRU of memSize entries in front of it. memSize <= 0 disables
// the memory layer and every call round-trips through disk.
func NewCachedEmbedder(inner Embedder, disk *Cache, memSize int) *CachedEmbedder {
	var mem *lru.Cache[string, []float32]
	if memSize > 0 {
		mem, _ = lru.New[string, []float32](memSize)
	}
	return &CachedEmbedder{inner: inner, disk: disk, mem: mem}
}

// NewCachedEmbedderWithDefaults wraps inner with disk using
// DefaultMemoryCacheSize for the in-memory layer.
func NewCachedEmbedderWithDefaults(inner Embedder, disk *Cache) *CachedEmbedder {
	return NewCachedEmbedder(inner, disk, DefaultMemoryCacheSize)
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := Key(text)

	if c.mem != nil {
		if vec, ok := c.mem.Get(key); ok {
			return vec, nil
		}
	}
	if vec, ok := c.disk.Get(text); ok {
		if c.mem != nil {
			c.mem.Add(key, vec)
		}
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.disk.Put(text, vec); err != nil {
		slog.Default().Warn("failed to persist embedding to disk cache", "error", err)
	}
	if c.mem != nil {
		c.mem.Add(key, vec)
	}
	return vec, nil
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		key := Key(text)
		if c.mem != nil {
			if vec, ok := c.mem.Get(key); ok {
				results[i] = vec
				continue
			}
		}
		if vec, ok := c.disk.Get(text); ok {
			results[i] = vec
			if c.mem != nil {
				c.mem.Add(key, vec)
			}
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	embedded, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, idx := range missIdx {
		vec := embedded[j]
		results[idx] = vec
		if err := c.disk.Put(texts[idx], vec); err != nil {
			slog.Default().Warn("failed to persist embedding to disk cache", "error", err)
		}
		if c.mem != nil {
			c.mem.Add(Key(texts[idx]), vec)
		}
	}
	return results, nil
}

func (c *CachedEmbedder) Dimensions() int                    { return c.inner.Dimensions() }
func (c *CachedEmbedder) ModelName() string                  { return c.inner.ModelName() }
func (c *CachedEmbedder) Available(ctx context.Context) bool { return c.inner.Available(ctx) }
func (c *CachedEmbedder) Close() error                       { return c.inner.Close() }

// Inner returns the wrapped embedder.
func (c *CachedEmbedder) Inner() Embedder { return c.inner }

// Clear removes every cached embedding, on disk and in memory (spec §4.B).
func (c *CachedEmbedder) Clear() error {
	if c.mem != nil {
		c.mem.Purge()
	}
	return c.disk.Clear()
}
