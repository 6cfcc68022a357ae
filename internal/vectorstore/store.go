// Package vectorstore persists (chunk, vector) pairs under named
// collections and answers k-nearest-neighbor queries by exact cosine
// scan. Vectors are L2-normalized at this boundary, so cosine similarity
// reduces to a dot product regardless of the embedding provider's own
// normalization convention.
package vectorstore

import (
	"context"
	"errors"
	"math"

	"document-chat-platform/models"
)

// ErrIndexUnavailable signals that the index storage layer is down. The
// index is a required dependency for both ingestion and query; callers
// must not degrade silently.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "documents"

// Entry is one (chunk, vector) pair to be indexed.
type Entry struct {
	Chunk  models.Chunk
	Vector []float32
}

// SearchResult pairs a chunk with its similarity score.
type SearchResult struct {
	Chunk models.Chunk
	Score float64
}

// Index stores chunk vectors and supports similarity search.
//
// Insert is idempotent per chunk id and all-or-nothing per document:
// either every entry of a document is indexed or none is. Entries are
// visible to searches issued after Insert returns. Search returns at
// most k results, descending by score, ties broken by insertion order.
// Delete removes exactly the entries owned by documentID and reports
// how many were removed.
type Index interface {
	Insert(ctx context.Context, collection string, entries []Entry) error
	Search(ctx context.Context, collection string, vector []float32, k int) ([]SearchResult, error)
	Delete(ctx context.Context, collection, documentID string) (int64, error)
	Count(ctx context.Context, collection, documentID string) (int64, error)
}

// Normalize scales v to unit length. A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	scale := 1.0 / math.Sqrt(norm)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * scale)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
