// Package retrieval finds the chunks most similar to a question.
package retrieval

import (
	"context"

	"document-chat-platform/internal/embedding"
	"document-chat-platform/internal/logger"
	"document-chat-platform/internal/vectorstore"
	"document-chat-platform/models"
)

// Retriever embeds a question and searches the vector index. The index is
// queried fresh on every call, so documents ingested between calls are
// visible immediately; nothing is cached here.
type Retriever struct {
	provider   embedding.Provider
	index      vectorstore.Index
	collection string
	topK       int
}

func NewRetriever(provider embedding.Provider, index vectorstore.Index, collection string, topK int) *Retriever {
	if collection == "" {
		collection = vectorstore.DefaultCollection
	}
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{provider: provider, index: index, collection: collection, topK: topK}
}

// Retrieve returns the chunks most similar to the question, best first.
// Scores are dropped at this layer; they are only logged for diagnostics.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]models.Chunk, error) {
	vec, err := r.provider.EmbedOne(ctx, question)
	if err != nil {
		return nil, err
	}

	results, err := r.index.Search(ctx, r.collection, vec, r.topK)
	if err != nil {
		return nil, err
	}

	chunks := make([]models.Chunk, len(results))
	for i, result := range results {
		chunks[i] = result.Chunk
		logger.Debug("retrieved chunk",
			"chunk_id", result.Chunk.ChunkID,
			"score", result.Score,
			"rank", i)
	}
	return chunks, nil
}
