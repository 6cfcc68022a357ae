package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"document-chat-platform/internal/logger"
	"document-chat-platform/internal/retrieval"
	"document-chat-platform/internal/store"
	"document-chat-platform/internal/telemetry"
	"document-chat-platform/models"
)

// fileQuestionPhrases classify a question as a request about the uploaded
// documents themselves, answered from metadata instead of the index.
var fileQuestionPhrases = []string{
	"what files", "which files", "what documents", "which documents",
	"list files", "list documents", "show files", "show documents",
	"uploaded files", "uploaded documents", "what do you have",
	"what pdfs", "file details", "document details",
}

// metadataSourceLabel attributes metadata answers to the document store.
const metadataSourceLabel = "MongoDB Database"

// apologyMessage is the fixed fallback for any fault on the query path.
// The chat endpoint never returns a hard failure to the user.
const apologyMessage = "I'm sorry, but I don't have any documents to search through yet. Please upload a PDF document first from the Upload page."

// ChatService runs the query pipeline: intent check, retrieval, answer
// composition, source attribution and best-effort history recording.
type ChatService struct {
	retriever *retrieval.Retriever
	composer  AnswerComposer
	metadata  store.MetadataStore
	history   store.HistoryStore
	metrics   *telemetry.Metrics
}

func NewChatService(retriever *retrieval.Retriever, composer AnswerComposer, metadata store.MetadataStore, history store.HistoryStore, metrics *telemetry.Metrics) *ChatService {
	return &ChatService{
		retriever: retriever,
		composer:  composer,
		metadata:  metadata,
		history:   history,
		metrics:   metrics,
	}
}

// ProcessQuery answers a question. It never returns an error: faults
// collapse into the fixed apology answer with no sources.
func (s *ChatService) ProcessQuery(ctx context.Context, question string) models.QueryResponse {
	start := time.Now()

	response, path := s.answer(ctx, question)

	if s.metrics != nil {
		s.metrics.RecordQuery(path, time.Since(start).Seconds())
	}

	// A fault collapses straight to the response; nothing is recorded.
	if path == "fallback" {
		return response
	}

	// Best-effort history append; a failed write never fails the query.
	record := models.ChatRecord{
		Question:  question,
		Answer:    response.Answer,
		Sources:   response.Sources,
		Timestamp: response.Timestamp,
	}
	if err := s.history.Append(ctx, record); err != nil {
		logger.Warn("failed to record chat history", "error", err)
	}

	return response
}

func (s *ChatService) answer(ctx context.Context, question string) (models.QueryResponse, string) {
	now := time.Now().UTC()

	if isFileQuestion(question) {
		return models.QueryResponse{
			Answer:    s.documentsInfo(ctx),
			Sources:   []string{metadataSourceLabel},
			Timestamp: now,
		}, "metadata"
	}

	chunks, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		logger.Error("retrieval failed", "error", err, "question", truncate(question, 50))
		return models.QueryResponse{Answer: apologyMessage, Timestamp: now}, "fallback"
	}
	if s.metrics != nil {
		s.metrics.RecordRetrieval(len(chunks))
	}

	answer, err := s.composer.Compose(ctx, question, chunks)
	if err != nil {
		logger.Error("answer composition failed", "error", err, "question", truncate(question, 50))
		return models.QueryResponse{Answer: apologyMessage, Timestamp: now}, "fallback"
	}

	logger.Info("query processed", "question", truncate(question, 50), "chunks", len(chunks))

	return models.QueryResponse{
		Answer:    answer,
		Sources:   attributeSources(chunks),
		Timestamp: now,
	}, "retrieval"
}

// documentsInfo formats the metadata answer for file questions.
func (s *ChatService) documentsInfo(ctx context.Context) string {
	documents, err := s.metadata.List(ctx)
	if err != nil {
		logger.Error("failed to list documents", "error", err)
		return "Error retrieving document information."
	}
	if len(documents) == 0 {
		return "No documents have been uploaded yet."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I have access to %d document(s):\n\n", len(documents))
	for i, doc := range documents {
		sizeMB := float64(doc.FileSize) / (1024 * 1024)
		fmt.Fprintf(&sb, "%d. **%s**\n", i+1, doc.Filename)
		fmt.Fprintf(&sb, "   - Uploaded: %s\n", doc.UploadedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "   - Size: %.2f MB\n", sizeMB)
		fmt.Fprintf(&sb, "   - Chunks: %d\n\n", doc.NumChunks)
	}
	return sb.String()
}

// GetChatHistory returns the most recent chat records. Store failures
// degrade to an empty history.
func (s *ChatService) GetChatHistory(ctx context.Context, limit int) []models.ChatRecord {
	records, err := s.history.List(ctx, limit)
	if err != nil {
		logger.Error("failed to list chat history", "error", err)
		return []models.ChatRecord{}
	}
	return records
}

func isFileQuestion(question string) bool {
	lowered := strings.ToLower(question)
	for _, phrase := range fileQuestionPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// attributeSources deduplicates chunk source labels with set semantics.
// Retrieval rank is deliberately discarded; the output is sorted only so
// responses are deterministic. Returns nil when there are no sources so
// the field is omitted from the response.
func attributeSources(chunks []models.Chunk) []string {
	seen := make(map[string]struct{})
	for _, chunk := range chunks {
		if chunk.Source != "" {
			seen[chunk.Source] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	sources := make([]string, 0, len(seen))
	for source := range seen {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
