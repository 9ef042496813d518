// Package embedding turns chunk text into vectors (spec §4.A) and caches
// the results so repeated content never gets re-embedded (spec §4.B).
package embedding

import "context"

// Embedder generates vector embeddings for text. Implementations must
// return a zero-length-magnitude vector (all zeros) for empty or
// whitespace-only input, and must return L2-normalized vectors otherwise
// (spec §4.A).
type Embedder interface {
	// Embed generates the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector length this provider emits.
	Dimensions() int

	// ModelName identifies the provider, used in logs and diagnostics.
	ModelName() string

	// Available reports whether the provider is ready to embed.
	Available(ctx context.Context) bool

	// Close releases any resources held by the provider.
	Close() error
}

// StaticDimensions is the embedding dimension produced by StaticEmbedder,
// the built-in deterministic provider used by default and in tests.
const StaticDimensions = 256
