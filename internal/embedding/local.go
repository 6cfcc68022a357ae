package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LocalProvider is an in-process hashing embedder: tokens are hashed into
// a fixed number of buckets with a sign hash, then the vector is
// L2-normalized. Deterministic, dependency-free and always available, so
// it is the default when no API key is configured. Not a semantic model,
// but adequate for lexical similarity over a single corpus.
type LocalProvider struct {
	dimension int
}

func NewLocalProvider(dimension int) *LocalProvider {
	if dimension <= 0 {
		dimension = 384
	}
	return &LocalProvider{dimension: dimension}
}

func (p *LocalProvider) Name() string { return "local-hashing" }

func (p *LocalProvider) Dimension() int { return p.dimension }

func (p *LocalProvider) EmbedOne(_ context.Context, text string) ([]float32, error) {
	vec := make([]float64, p.dimension)
	for token, count := range tokenize(text) {
		bucket, sign := hashToken(token, p.dimension)
		// Dampened term frequency keeps long chunks from swamping the vector.
		vec[bucket] += sign * math.Sqrt(float64(count))
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, p.dimension)
	if norm > 0 {
		scale := 1.0 / math.Sqrt(norm)
		for i, v := range vec {
			out[i] = float32(v * scale)
		}
	}
	return out, nil
}

func (p *LocalProvider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := p.EmbedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func tokenize(text string) map[string]int {
	counts := make(map[string]int)
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 1 {
			counts[sb.String()]++
		}
		sb.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return counts
}

func hashToken(token string, buckets int) (int, float64) {
	h := fnv.New64a()
	h.Write([]byte(token))
	sum := h.Sum64()
	bucket := int(sum % uint64(buckets))
	sign := 1.0
	if sum&(1<<63) != 0 {
		sign = -1.0
	}
	return bucket, sign
}
