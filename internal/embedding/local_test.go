package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderDeterministic(t *testing.T) {
	provider := NewLocalProvider(128)

	a, err := provider.EmbedOne(context.Background(), "the quick brown fox")
	require.NoError(t, err)
	b, err := provider.EmbedOne(context.Background(), "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestLocalProviderDimension(t *testing.T) {
	provider := NewLocalProvider(64)
	assert.Equal(t, 64, provider.Dimension())

	vec, err := provider.EmbedOne(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Len(t, vec, 64)

	// Non-positive dimension falls back to the default.
	assert.Equal(t, 384, NewLocalProvider(0).Dimension())
}

func TestLocalProviderUnitNorm(t *testing.T) {
	provider := NewLocalProvider(256)

	vec, err := provider.EmbedOne(context.Background(), "a document about warranty terms and refund policy")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestLocalProviderEmptyTextIsZeroVector(t *testing.T) {
	provider := NewLocalProvider(32)

	vec, err := provider.EmbedOne(context.Background(), "")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestLocalProviderSimilarTextsScoreHigher(t *testing.T) {
	provider := NewLocalProvider(384)
	ctx := context.Background()

	query, err := provider.EmbedOne(ctx, "warranty period for the product")
	require.NoError(t, err)
	related, err := provider.EmbedOne(ctx, "the product warranty period is two years")
	require.NoError(t, err)
	unrelated, err := provider.EmbedOne(ctx, "chocolate cake baking instructions")
	require.NoError(t, err)

	dotProduct := func(a, b []float32) float64 {
		sum := 0.0
		for i := range a {
			sum += float64(a[i]) * float64(b[i])
		}
		return sum
	}

	assert.Greater(t, dotProduct(query, related), dotProduct(query, unrelated))
}

func TestLocalProviderEmbedMany(t *testing.T) {
	provider := NewLocalProvider(64)

	vectors, err := provider.EmbedMany(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	single, err := provider.EmbedOne(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, single, vectors[1])
}

func TestLocalProviderEmbedManyHonorsCancellation(t *testing.T) {
	provider := NewLocalProvider(64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.EmbedMany(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
}
