package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	*HashingEmbedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.HashingEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls += len(texts)
	return c.HashingEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedder(t *testing.T) {
	inner := &countingEmbedder{HashingEmbedder: NewHashingEmbedder(16)}
	c, err := NewCachedEmbedder(inner, 2)
	require.NoError(t, err)
	ctx := context.Background()

	first, _ := c.Embed(ctx, "breakfast")
	first[0] = 42 // callers must not be able to corrupt the cache
	second, _ := c.Embed(ctx, "breakfast")
	assert.Equal(t, 1, inner.calls)
	assert.NotEqual(t, float32(42), second[0])

	out, err := c.EmbedBatch(ctx, []string{"breakfast", "spa", "gym"})
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, 3, inner.calls, "only misses reach the inner embedder")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 16, c.Dimensions())

	require.NoError(t, c.Close())
	assert.Equal(t, 0, c.Len())
}

func TestCachedEmbedder_InvalidSize(t *testing.T) {
	_, err := NewCachedEmbedder(NewHashingEmbedder(4), 0)
	assert.Error(t, err)
}
