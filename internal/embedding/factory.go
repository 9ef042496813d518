package embedding

import (
	"log/slog"
	"os"
	"strings"
)

// New builds the default Embedder for the core: the built-in deterministic
// StaticEmbedder, wrapped in the content-addressed disk cache rooted at
// cacheRoot. CODESEARCH_EMBED_MEMCACHE=false disables the memory-cache front layer,
// useful for tests that want to exercise the disk path directly.
//
// The core's dispatcher and indexer only depend on the Embedder interface,
// so a networked provider can be substituted here without touching any
// other package.
func New(cacheRoot string, log *slog.Logger) Embedder {
	static := NewStaticEmbedder()
	disk := NewCache(cacheRoot, log)

	memSize := DefaultMemoryCacheSize
	if strings.EqualFold(os.Getenv("CODESEARCH_EMBED_MEMCACHE"), "false") {
		memSize = 0
	}
	return NewCachedEmbedder(static, disk, memSize)
}
