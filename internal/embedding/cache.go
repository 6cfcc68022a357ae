package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"document-chat-platform/internal/logger"
)

// CachedProvider memoizes embeddings in Redis, keyed by provider name and
// a hash of the text. Cache failures are non-fatal: the wrapped provider
// is always the fallback.
type CachedProvider struct {
	inner Provider
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedProvider(inner Provider, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedProvider{inner: inner, rdb: rdb, ttl: ttl}
}

func (p *CachedProvider) Name() string { return p.inner.Name() }

func (p *CachedProvider) Dimension() int { return p.inner.Dimension() }

func (p *CachedProvider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	key := p.cacheKey(text)

	if data, err := p.rdb.Get(ctx, key).Bytes(); err == nil {
		var vec []float32
		if err := json.Unmarshal(data, &vec); err == nil && len(vec) > 0 {
			return vec, nil
		}
	}

	vec, err := p.inner.EmbedOne(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vec); err == nil {
		if err := p.rdb.Set(ctx, key, data, p.ttl).Err(); err != nil {
			logger.Warn("embedding cache write failed", "error", err)
		}
	}
	return vec, nil
}

func (p *CachedProvider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	// Batch ingestion rarely repeats text; skip the cache and delegate.
	return p.inner.EmbedMany(ctx, texts)
}

// cacheKey includes the dimension so a reconfigured vector size never
// serves vectors cached at the old dimensionality.
func (p *CachedProvider) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s:%d:%s", p.inner.Name(), p.inner.Dimension(), hex.EncodeToString(sum[:16]))
}
