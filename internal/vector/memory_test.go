package vector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_UpsertSearch(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []string{"a", "b", "c"}, [][]float32{{1, 0, 0}, {0.9, 0.1, 0}, {0, 1, 0}}))
	assert.Equal(t, 3, idx.Len())

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9, "self similarity should be 1")

	// replacing "a" moves it away from the query
	require.NoError(t, idx.Upsert(ctx, []string{"a"}, [][]float32{{0, 0, 1}}))
	assert.Equal(t, 3, idx.Len(), "upsert should not grow the index")
	results, err = idx.Search(ctx, []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)
}

func TestMemoryIndex_Filter(t *testing.T) {
	idx, err := NewMemoryIndex(2)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, []string{"h1-a", "h2-a", "h1-b"}, [][]float32{{1, 0}, {1, 0}, {0, 1}}))

	allowed := map[string]struct{}{"h1-a": {}, "h1-b": {}}
	results, err := idx.Search(ctx, []float32{1, 0}, 10, SetFilter(allowed))
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, allowed, r.ID, "filter leaked %s", r.ID)
	}
}

func TestMemoryIndex_Errors(t *testing.T) {
	_, err := NewMemoryIndex(0)
	assert.Error(t, err, "zero dimensions")

	idx, err := NewMemoryIndex(2)
	require.NoError(t, err)
	ctx := context.Background()
	assert.Error(t, idx.Upsert(ctx, []string{"a"}, nil), "length mismatch")
	assert.Error(t, idx.Upsert(ctx, []string{"a"}, [][]float32{{1, 2, 3}}), "vector dimension")

	_, err = idx.Search(ctx, []float32{1}, 1, nil)
	assert.Error(t, err, "query dimension")

	res, err := idx.Search(ctx, []float32{1, 0}, 0, nil)
	assert.NoError(t, err)
	assert.Nil(t, res, "k=0 should return nothing")
}

func TestMemoryIndex_Remove(t *testing.T) {
	idx, err := NewMemoryIndex(2)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, []string{"a", "b", "c"}, [][]float32{{1, 0}, {0, 1}, {1, 1}}))

	require.NoError(t, idx.Remove(ctx, []string{"b", "missing"}))
	assert.Equal(t, 2, idx.Len())

	require.NoError(t, idx.Upsert(ctx, []string{"c"}, [][]float32{{0, 1}}))
	assert.Equal(t, 2, idx.Len(), "positions should be rebuilt after remove")

	results, err := idx.Search(ctx, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].ID)
}

func TestMemoryIndex_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors", "index.bin")
	ctx := context.Background()

	idx, err := NewMemoryIndex(3)
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(ctx, []string{"стая-1", "room-2"}, [][]float32{{0.1, 0.2, 0.3}, {0.3, 0.2, 0.1}}))
	require.NoError(t, idx.Save(path))

	loaded, err := NewMemoryIndex(3)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(path))
	require.Equal(t, 2, loaded.Len())

	results, err := loaded.Search(ctx, []float32{0.1, 0.2, 0.3}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "стая-1", results[0].ID)

	wrongDim, err := NewMemoryIndex(4)
	require.NoError(t, err)
	assert.Error(t, wrongDim.Load(path), "dimension mismatch")

	empty, err := NewMemoryIndex(3)
	require.NoError(t, err)
	assert.NoError(t, empty.Load(filepath.Join(t.TempDir(), "missing.bin")), "missing file is an empty index")

	garbage := filepath.Join(t.TempDir(), "garbage.bin")
	require.NoError(t, os.WriteFile(garbage, []byte("not an index"), 0644))
	assert.Error(t, empty.Load(garbage), "bad magic")
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9, "parallel vectors")
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{0, 1}), "orthogonal vectors")
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 2}))
}
