package services

import (
	"context"
	"fmt"
	"strings"

	"document-chat-platform/internal/ai"
	"document-chat-platform/models"
)

// AnswerComposer produces an answer string from a question and the
// retrieved chunks. Both strategies return a graceful string when no
// chunks were retrieved; they never fail on empty input.
type AnswerComposer interface {
	Compose(ctx context.Context, question string, chunks []models.Chunk) (string, error)
}

const noContentMessage = "I don't have any document content to answer your question. Please upload a PDF document first."

const emptyExtractionMessage = "I found the document but couldn't extract meaningful content. The document might be empty or image-based."

// GenerativeComposer answers through the Gemini model with the retrieved
// chunks as context.
type GenerativeComposer struct {
	client *ai.GeminiClient
}

func NewGenerativeComposer(client *ai.GeminiClient) *GenerativeComposer {
	return &GenerativeComposer{client: client}
}

func (c *GenerativeComposer) Compose(ctx context.Context, question string, chunks []models.Chunk) (string, error) {
	if len(chunks) == 0 {
		return noContentMessage, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	return c.client.GenerateAnswer(ctx, question, texts)
}

// ExtractiveComposer is the local fallback when no generative model is
// configured: it excerpts the first sentences of the retrieved context
// instead of generating new text.
type ExtractiveComposer struct {
	maxSentences int
}

func NewExtractiveComposer() *ExtractiveComposer {
	return &ExtractiveComposer{maxSentences: 3}
}

func (c *ExtractiveComposer) Compose(_ context.Context, _ string, chunks []models.Chunk) (string, error) {
	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
	}
	context := strings.Join(texts, "\n\n")
	if strings.TrimSpace(context) == "" {
		return noContentMessage, nil
	}

	var sentences []string
	for _, s := range strings.Split(context, ".") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	if len(sentences) == 0 {
		return emptyExtractionMessage, nil
	}

	n := c.maxSentences
	if len(sentences) < n {
		n = len(sentences)
	}
	answer := strings.Join(sentences[:n], ". ") + "."

	return fmt.Sprintf("Based on the uploaded documents:\n\n%s\n\n(Note: Using local processing. For better answers, configure a Gemini API key.)", answer), nil
}
