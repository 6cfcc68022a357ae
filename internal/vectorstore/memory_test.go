package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-chat-platform/models"
)

func entry(docID, chunkID string, order int, vector []float32) Entry {
	return Entry{
		Chunk: models.Chunk{
			DocumentID: docID,
			ChunkID:    chunkID,
			Order:      order,
			Text:       "text for " + chunkID,
			Source:     docID + ".pdf (page 1)",
		},
		Vector: vector,
	}
}

func TestMemoryIndexInsertAndSearch(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	err := index.Insert(ctx, "documents", []Entry{
		entry("d1", "d1_0", 0, []float32{1, 0, 0}),
		entry("d1", "d1_1", 1, []float32{0, 1, 0}),
		entry("d1", "d1_2", 2, []float32{0, 0, 1}),
	})
	require.NoError(t, err)

	results, err := index.Search(ctx, "documents", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "d1_0", results[0].Chunk.ChunkID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestMemoryIndexSearchNormalizesQuery(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, index.Insert(ctx, "documents", []Entry{
		entry("d1", "d1_0", 0, []float32{3, 4}),
	}))

	// Same direction, different magnitude: cosine must still be 1.
	results, err := index.Search(ctx, "documents", []float32{30, 40}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestMemoryIndexTiesKeepInsertionOrder(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	// Identical vectors produce identical scores.
	require.NoError(t, index.Insert(ctx, "documents", []Entry{
		entry("d1", "d1_0", 0, []float32{1, 1}),
		entry("d2", "d2_0", 0, []float32{1, 1}),
		entry("d3", "d3_0", 0, []float32{1, 1}),
	}))

	results, err := index.Search(ctx, "documents", []float32{1, 1}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "d1_0", results[0].Chunk.ChunkID)
	assert.Equal(t, "d2_0", results[1].Chunk.ChunkID)
	assert.Equal(t, "d3_0", results[2].Chunk.ChunkID)
}

func TestMemoryIndexUpsertKeepsCount(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	entries := []Entry{
		entry("d1", "d1_0", 0, []float32{1, 0}),
		entry("d1", "d1_1", 1, []float32{0, 1}),
	}
	require.NoError(t, index.Insert(ctx, "documents", entries))
	require.NoError(t, index.Insert(ctx, "documents", entries))

	count, err := index.Count(ctx, "documents", "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMemoryIndexDeleteRemovesOnlyOwnedEntries(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, index.Insert(ctx, "documents", []Entry{
		entry("d1", "d1_0", 0, []float32{1, 0}),
		entry("d1", "d1_1", 1, []float32{0, 1}),
		entry("d2", "d2_0", 0, []float32{1, 1}),
	}))

	removed, err := index.Delete(ctx, "documents", "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	total, err := index.Count(ctx, "documents", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// Deleting again is a no-op.
	removed, err = index.Delete(ctx, "documents", "d1")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemoryIndexCollectionsAreIsolated(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, index.Insert(ctx, "alpha", []Entry{entry("d1", "d1_0", 0, []float32{1, 0})}))

	results, err := index.Search(ctx, "beta", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryIndexSearchKBounds(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, index.Insert(ctx, "documents", []Entry{
		entry("d1", "d1_0", 0, []float32{1, 0}),
	}))

	results, err := index.Search(ctx, "documents", []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = index.Search(ctx, "documents", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
