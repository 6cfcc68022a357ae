package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyVariesWithDimension(t *testing.T) {
	small := NewCachedProvider(NewLocalProvider(128), nil, 0)
	large := NewCachedProvider(NewLocalProvider(384), nil, 0)

	// A reconfigured dimension must never hit entries cached at the old one.
	assert.NotEqual(t, small.cacheKey("same text"), large.cacheKey("same text"))
	assert.Equal(t, small.cacheKey("same text"), small.cacheKey("same text"))
	assert.NotEqual(t, small.cacheKey("text a"), small.cacheKey("text b"))
}
