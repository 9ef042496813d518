package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder wraps StaticEmbedder to count how many times Embed was
// actually invoked, so tests can assert the cache avoided recomputation.
type countingEmbedder struct {
	*StaticEmbedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.StaticEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls += len(texts)
	return c.StaticEmbedder.EmbedBatch(ctx, texts)
}

func newCountingEmbedder() *countingEmbedder {
	return &countingEmbedder{StaticEmbedder: NewStaticEmbedder()}
}

func TestCachedEmbedderAvoidsRecomputingSameText(t *testing.T) {
	inner := newCountingEmbedder()
	cached := NewCachedEmbedderWithDefaults(inner, NewCache(t.TempDir(), nil))

	text := "func add(a, b int) int { return a + b }"
	v1, err := cached.Embed(context.Background(), text)
	require.NoError(t, err)
	v2, err := cached.Embed(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedEmbedderHitsDiskWhenMemoryCacheIsCold(t *testing.T) {
	root := t.TempDir()
	inner := newCountingEmbedder()
	first := NewCachedEmbedderWithDefaults(inner, NewCache(root, nil))

	text := "class UserRepository {}"
	_, err := first.Embed(context.Background(), text)
	require.NoError(t, err)

	// Fresh process-local state (new memory cache), same disk root.
	secondInner := newCountingEmbedder()
	second := NewCachedEmbedderWithDefaults(secondInner, NewCache(root, nil))
	_, err = second.Embed(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, 0, secondInner.calls, "should have served from disk cache, not recomputed")
}

func TestCachedEmbedderClearForcesRecomputation(t *testing.T) {
	inner := newCountingEmbedder()
	cached := NewCachedEmbedderWithDefaults(inner, NewCache(t.TempDir(), nil))

	text := "func sub(a, b int) int { return a - b }"
	_, err := cached.Embed(context.Background(), text)
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	require.NoError(t, cached.Clear())

	_, err = cached.Embed(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "a cleared cache should recompute on the next call")
}

func TestCachedEmbedderBatchMixesHitsAndMisses(t *testing.T) {
	inner := newCountingEmbedder()
	cached := NewCachedEmbedderWithDefaults(inner, NewCache(t.TempDir(), nil))

	_, err := cached.Embed(context.Background(), "already cached")
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	results, err := cached.EmbedBatch(context.Background(), []string{"already cached", "brand new"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 2, inner.calls, "only the uncached text should trigger a new Embed call")
}
