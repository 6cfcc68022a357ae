package embedding

import (
	"context"

	"document-chat-platform/internal/ai"
)

// GeminiProvider embeds text through the Gemini embeddings API
// (text-embedding-004, 768 dimensions). Vectors are not guaranteed to be
// unit length; the vector index normalizes at its boundary.
type GeminiProvider struct {
	client    *ai.GeminiClient
	dimension int
}

func NewGeminiProvider(client *ai.GeminiClient, dimension int) *GeminiProvider {
	return &GeminiProvider{client: client, dimension: dimension}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Dimension() int { return p.dimension }

func (p *GeminiProvider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vec, err := p.client.EmbedText(ctx, text)
	if err != nil {
		return nil, classify(err)
	}
	return vec, nil
}

func (p *GeminiProvider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := p.client.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, classify(err)
	}
	return vectors, nil
}
