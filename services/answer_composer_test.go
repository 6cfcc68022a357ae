package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-chat-platform/models"
)

func TestExtractiveComposerNoChunks(t *testing.T) {
	composer := NewExtractiveComposer()

	answer, err := composer.Compose(context.Background(), "what is this about?", nil)
	require.NoError(t, err)
	assert.Equal(t, noContentMessage, answer)
}

func TestExtractiveComposerWhitespaceChunks(t *testing.T) {
	composer := NewExtractiveComposer()

	chunks := []models.Chunk{{Text: "   "}, {Text: "\n\n"}}
	answer, err := composer.Compose(context.Background(), "anything", chunks)
	require.NoError(t, err)
	assert.Equal(t, noContentMessage, answer)
}

func TestExtractiveComposerNoSentences(t *testing.T) {
	composer := NewExtractiveComposer()

	// Content with only empty segments between periods.
	chunks := []models.Chunk{{Text: ". . ."}}
	answer, err := composer.Compose(context.Background(), "anything", chunks)
	require.NoError(t, err)
	assert.Equal(t, emptyExtractionMessage, answer)
}

func TestExtractiveComposerTakesFirstThreeSentences(t *testing.T) {
	composer := NewExtractiveComposer()

	chunks := []models.Chunk{
		{Text: "First sentence. Second sentence."},
		{Text: "Third sentence. Fourth sentence. Fifth sentence."},
	}
	answer, err := composer.Compose(context.Background(), "anything", chunks)
	require.NoError(t, err)

	assert.Contains(t, answer, "First sentence. Second sentence. Third sentence.")
	assert.NotContains(t, answer, "Fourth sentence")
	assert.True(t, strings.HasPrefix(answer, "Based on the uploaded documents:"))
	assert.Contains(t, answer, "configure a Gemini API key")
}

func TestExtractiveComposerFewerSentencesThanLimit(t *testing.T) {
	composer := NewExtractiveComposer()

	chunks := []models.Chunk{{Text: "Only one sentence here"}}
	answer, err := composer.Compose(context.Background(), "anything", chunks)
	require.NoError(t, err)
	assert.Contains(t, answer, "Only one sentence here.")
}

func TestGenerativeComposerNoChunks(t *testing.T) {
	// Empty context never reaches the model, so a nil client is safe.
	composer := NewGenerativeComposer(nil)

	answer, err := composer.Compose(context.Background(), "what is this about?", nil)
	require.NoError(t, err)
	assert.Equal(t, noContentMessage, answer)
}
