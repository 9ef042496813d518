// Package vectorindex holds every embedded chunk's vector in memory for
// search (spec §4.H): an LRU-bounded working set, parallel batched cosine
// scoring, and global top-K selection with a deterministic tie-break.
package vectorindex

import (
	"container/list"
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/codesearchcore/codesearchcore/internal/chunkstore"
	"github.com/codesearchcore/codesearchcore/internal/model"
	"github.com/codesearchcore/codesearchcore/internal/vectormath"
)

// DefaultMaxBytes is the in-memory ceiling before LRU eviction kicks in
// (spec §4.H: "default 100 GiB").
const DefaultMaxBytes int64 = 100 * 1024 * 1024 * 1024

// evictBatchSize is how many entries evict_lru drops at a time (spec §4.H).
const evictBatchSize = 10

// minResidency is the floor below which eviction never runs, so a cold
// start or a pathological query never empties the index entirely.
const minResidency = 100

type entry struct {
	chunkID string
	vector  []float32
	meta    model.ChunkMeta
	elem    *list.Element
}

// Index is the in-memory working set of embedded chunks. All state lives
// behind one mutex (spec §5: single-writer components); search batches
// fan out read-only copies of the candidate slice, the index's one
// sanctioned parallelism point alongside the indexing queue's concurrency.
type Index struct {
	mu         sync.Mutex
	entries    map[string]*entry
	accessList *list.List // front = most recently used
	usedBytes  int64
	maxBytes   int64
	log        *slog.Logger
}

// New creates an empty Index with the given byte ceiling. maxBytes <= 0
// uses DefaultMaxBytes.
func New(maxBytes int64, log *slog.Logger) *Index {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = slog.Default()
	}
	return &Index{
		entries:    make(map[string]*entry),
		accessList: list.New(),
		maxBytes:   maxBytes,
		log:        log,
	}
}

func vectorBytes(v []float32) int64 {
	return int64(len(v)) * 4
}

// Preload populates the index from every chunk already persisted to store
// that carries an embedding. It stops adding once the byte ceiling would be
// exceeded, logging how much was left out (spec §4.H).
func (idx *Index) Preload(store *chunkstore.Store) error {
	all, err := store.LoadAll()
	if err != nil {
		return err
	}

	var loaded, skipped int
	full := false
	for project, chunks := range all {
		for _, c := range chunks {
			if !c.HasEmbedding() {
				continue
			}
			if !full {
				idx.mu.Lock()
				full = idx.usedBytes+vectorBytes(c.Embedding) > idx.maxBytes
				idx.mu.Unlock()
			}
			if full {
				skipped++
				continue
			}
			meta := model.ChunkMeta{
				Project:        project,
				File:           c.FilePath,
				Language:       c.Language,
				StartLine:      c.StartLine,
				EndLine:        c.EndLine,
				ContentSnippet: c.Content,
			}
			if !idx.Add(c.ID, c.Embedding, meta) {
				skipped++
				continue
			}
			loaded++
		}
	}
	if skipped > 0 {
		idx.log.Warn("preload stopped early: memory ceiling reached", "loaded", loaded, "skipped", skipped)
	}
	return nil
}

// Add inserts or replaces one chunk's vector, evicting LRU entries first if
// the addition would exceed the byte ceiling. It reports whether the chunk
// was added (false if even after evicting to the residency floor there is
// still no room).
func (idx *Index) Add(chunkID string, vector []float32, meta model.ChunkMeta) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	size := vectorBytes(vector)

	if existing, ok := idx.entries[chunkID]; ok {
		idx.usedBytes -= vectorBytes(existing.vector)
		idx.accessList.Remove(existing.elem)
		delete(idx.entries, chunkID)
	}

	for idx.usedBytes+size > idx.maxBytes && len(idx.entries) > minResidency {
		if !idx.evictLocked() {
			break
		}
	}
	if idx.usedBytes+size > idx.maxBytes && len(idx.entries) >= minResidency {
		return false
	}

	e := &entry{chunkID: chunkID, vector: vector, meta: meta}
	e.elem = idx.accessList.PushFront(chunkID)
	idx.entries[chunkID] = e
	idx.usedBytes += size
	return true
}

// evictLocked drops up to evictBatchSize least-recently-used entries. The
// caller must hold idx.mu. Returns false if there was nothing to evict.
func (idx *Index) evictLocked() bool {
	dropped := 0
	for dropped < evictBatchSize {
		back := idx.accessList.Back()
		if back == nil {
			break
		}
		chunkID := back.Value.(string)
		if e, ok := idx.entries[chunkID]; ok {
			idx.usedBytes -= vectorBytes(e.vector)
			delete(idx.entries, chunkID)
		}
		idx.accessList.Remove(back)
		dropped++
	}
	return dropped > 0
}

// Len returns the number of chunks currently resident.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.entries)
}

// scored pairs a chunk id with its cosine score against the query.
type scored struct {
	chunkID string
	score   float32
}

// Search scores every candidate (optionally restricted to projectFilter)
// against query, batches the work across logical CPUs, and returns the top
// K by score, highest first, with chunk_id as a deterministic tie-break
// (spec §4.H). Each batch returns every score it computed, not just its
// local best, so the global top-K is exact rather than approximate.
func (idx *Index) Search(ctx context.Context, query []float32, topK int, projectFilter string) []model.SearchResult {
	idx.mu.Lock()
	candidates := make([]*entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		if projectFilter != "" && e.meta.Project != projectFilter {
			continue
		}
		candidates = append(candidates, e)
	}
	idx.mu.Unlock()

	if len(candidates) == 0 || topK <= 0 {
		return nil
	}

	cpus := runtime.NumCPU()
	batchSize := int(math.Ceil(float64(len(candidates)) / float64(2*cpus)))
	if batchSize < 1 {
		batchSize = 1
	}

	numBatches := (len(candidates) + batchSize - 1) / batchSize
	results := make([][]scored, numBatches)

	var wg sync.WaitGroup
	for b := 0; b < numBatches; b++ {
		start := b * batchSize
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		wg.Add(1)
		go func(idx int, batch []*entry) {
			defer wg.Done()
			vectors := make([][]float32, len(batch))
			for i, e := range batch {
				vectors[i] = e.vector
			}
			scores := make([]float32, len(batch))
			vectormath.CosineBatch(query, vectors, scores)

			out := make([]scored, len(batch))
			for i, e := range batch {
				out[i] = scored{chunkID: e.chunkID, score: scores[i]}
			}
			results[idx] = out
		}(b, batch)
	}
	wg.Wait()

	var all []scored
	for _, r := range results {
		all = append(all, r...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].chunkID < all[j].chunkID
	})
	if topK < len(all) {
		all = all[:topK]
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make([]model.SearchResult, 0, len(all))
	for _, s := range all {
		e, ok := idx.entries[s.chunkID]
		if !ok {
			continue
		}
		idx.accessList.MoveToFront(e.elem)
		out = append(out, model.SearchResult{
			ChunkID:        e.chunkID,
			Project:        e.meta.Project,
			File:           e.meta.File,
			Language:       e.meta.Language,
			StartLine:      e.meta.StartLine,
			EndLine:        e.meta.EndLine,
			ContentSnippet: e.meta.ContentSnippet,
			Score:          s.score,
		})
	}
	return out
}
