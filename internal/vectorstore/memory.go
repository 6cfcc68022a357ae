package vectorstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryIndex is an in-memory Index using brute-force cosine search.
// Used for local development and tests; entries do not survive restarts.
type MemoryIndex struct {
	mu          sync.RWMutex
	collections map[string][]Entry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{collections: make(map[string][]Entry)}
}

func (m *MemoryIndex) Insert(_ context.Context, collection string, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.collections[collection]
	for _, entry := range entries {
		entry.Vector = Normalize(entry.Vector)
		replaced := false
		for i := range existing {
			if existing[i].Chunk.ChunkID == entry.Chunk.ChunkID {
				// Upsert in place so insertion order stays stable.
				existing[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, entry)
		}
	}
	m.collections[collection] = existing
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, collection string, vector []float32, k int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if k <= 0 {
		return nil, nil
	}

	query := Normalize(vector)
	entries := m.collections[collection]

	results := make([]SearchResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, SearchResult{Chunk: entry.Chunk, Score: dot(entry.Vector, query)})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (m *MemoryIndex) Delete(_ context.Context, collection, documentID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.collections[collection]
	kept := entries[:0]
	var removed int64
	for _, entry := range entries {
		if entry.Chunk.DocumentID == documentID {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	m.collections[collection] = kept
	return removed, nil
}

func (m *MemoryIndex) Count(_ context.Context, collection, documentID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, entry := range m.collections[collection] {
		if documentID == "" || entry.Chunk.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}
