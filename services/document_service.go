package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"document-chat-platform/internal/config"
	"document-chat-platform/internal/embedding"
	"document-chat-platform/internal/logger"
	"document-chat-platform/internal/store"
	"document-chat-platform/internal/telemetry"
	"document-chat-platform/internal/vectorstore"
	"document-chat-platform/models"
)

// DocumentService handles document ingestion: upload validation, text
// extraction, chunking, embedding and indexing, plus deletion.
type DocumentService struct {
	cfg       *config.Config
	splitter  *TextSplitter
	extractor *PDFExtractor
	provider  embedding.Provider
	index     vectorstore.Index
	metadata  store.MetadataStore
	metrics   *telemetry.Metrics
}

func NewDocumentService(cfg *config.Config, splitter *TextSplitter, extractor *PDFExtractor, provider embedding.Provider, index vectorstore.Index, metadata store.MetadataStore, metrics *telemetry.Metrics) (*DocumentService, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DocumentService{
		cfg:       cfg,
		splitter:  splitter,
		extractor: extractor,
		provider:  provider,
		index:     index,
		metadata:  metadata,
		metrics:   metrics,
	}, nil
}

// SaveUpload validates the filename, stores the file body and creates a
// pending metadata record. Processing happens separately, either inline
// or through the ingestion queue.
func (s *DocumentService) SaveUpload(ctx context.Context, filename string, body io.Reader) (models.Document, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return models.Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	id := uuid.NewString()
	path := filepath.Join(s.cfg.UploadDir, id+".pdf")

	out, err := os.Create(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to store upload: %w", err)
	}
	size, err := io.Copy(out, body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return models.Document{}, fmt.Errorf("failed to store upload: %w", err)
	}

	doc := models.Document{
		ID:         id,
		Filename:   filepath.Base(filename),
		FilePath:   path,
		FileSize:   size,
		Status:     models.StatusPending,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.metadata.Put(ctx, doc); err != nil {
		os.Remove(path)
		return models.Document{}, fmt.Errorf("failed to record document metadata: %w", err)
	}

	logger.Info("upload saved", "document_id", id, "filename", doc.Filename, "size", size)
	return doc, nil
}

// Process ingests a saved document: extract, chunk, embed and index, then
// mark the record processed. Indexing is all-or-nothing per document; a
// failure leaves the record in failed state with no entries indexed.
func (s *DocumentService) Process(ctx context.Context, documentID string) (models.Document, error) {
	start := time.Now()

	doc, err := s.metadata.Get(ctx, documentID)
	if err != nil {
		return models.Document{}, err
	}

	doc, err = s.process(ctx, doc)
	status := models.StatusProcessed
	if err != nil {
		status = models.StatusFailed
	}
	if s.metrics != nil {
		s.metrics.RecordIngestion(status, doc.NumChunks, time.Since(start).Seconds())
	}
	return doc, err
}

func (s *DocumentService) process(ctx context.Context, doc models.Document) (models.Document, error) {
	result, err := s.extractor.ExtractText(ctx, doc.FilePath)
	if err != nil {
		s.markFailed(ctx, doc.ID, err)
		return doc, err
	}

	pieces := s.splitter.Split(result.Text)
	chunks := buildChunks(doc, pieces, result, s.cfg.ChunkOverlap)

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := s.provider.EmbedMany(ctx, texts)
	if err != nil {
		s.markFailed(ctx, doc.ID, err)
		return doc, err
	}

	entries := make([]vectorstore.Entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = vectorstore.Entry{Chunk: chunk, Vector: vectors[i]}
	}

	// Delete-then-insert keeps reprocessing idempotent even when the new
	// split yields fewer chunks than the indexed one.
	if _, err := s.index.Delete(ctx, s.cfg.VectorCollection, doc.ID); err != nil {
		s.markFailed(ctx, doc.ID, err)
		return doc, err
	}
	if err := s.index.Insert(ctx, s.cfg.VectorCollection, entries); err != nil {
		s.markFailed(ctx, doc.ID, err)
		return doc, err
	}

	if err := s.metadata.UpdateStatus(ctx, doc.ID, models.StatusProcessed, "", len(chunks)); err != nil {
		return doc, err
	}

	doc.Status = models.StatusProcessed
	doc.NumChunks = len(chunks)
	logger.Info("document processed", "document_id", doc.ID, "filename", doc.Filename, "chunks", len(chunks))
	return doc, nil
}

func (s *DocumentService) markFailed(ctx context.Context, documentID string, cause error) {
	if err := s.metadata.UpdateStatus(context.WithoutCancel(ctx), documentID, models.StatusFailed, cause.Error(), 0); err != nil {
		logger.Error("failed to mark document failed", "document_id", documentID, "error", err)
	}
}

// buildChunks wraps split pieces with ids, order and source labels. The
// start offset of each piece follows from the window contract: every
// chunk after the first begins `overlap` runes before the previous end.
func buildChunks(doc models.Document, pieces []string, result *ExtractionResult, overlap int) []models.Chunk {
	chunks := make([]models.Chunk, len(pieces))
	offset := 0
	for i, piece := range pieces {
		source := doc.Filename
		if page := result.PageAt(offset); page > 0 {
			source = fmt.Sprintf("%s (page %d)", doc.Filename, page)
		}
		chunks[i] = models.Chunk{
			DocumentID: doc.ID,
			ChunkID:    fmt.Sprintf("%s_%d", doc.ID, i),
			Order:      i,
			Text:       piece,
			Source:     source,
		}
		offset += len([]rune(piece)) - overlap
	}
	return chunks
}

// List returns all document records, newest first.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	return s.metadata.List(ctx)
}

// Delete removes a document's metadata record, its stored file and all of
// its index entries.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.metadata.Get(ctx, documentID)
	if err != nil {
		return err
	}

	removed, err := s.index.Delete(ctx, s.cfg.VectorCollection, documentID)
	if err != nil {
		return err
	}

	deleted, err := s.metadata.Delete(ctx, documentID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrNotFound
	}

	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove stored file", "document_id", documentID, "error", err)
		}
	}

	logger.Info("document deleted", "document_id", documentID, "chunks_removed", removed)
	return nil
}

// ReprocessFailed retries ingestion of every failed document. Called from
// the scheduled reprocessing job.
func (s *DocumentService) ReprocessFailed(ctx context.Context) {
	failed, err := s.metadata.ListByStatus(ctx, models.StatusFailed)
	if err != nil {
		logger.Error("failed to list failed documents", "error", err)
		return
	}
	for _, doc := range failed {
		if _, err := s.Process(ctx, doc.ID); err != nil {
			logger.Warn("reprocess attempt failed", "document_id", doc.ID, "error", err)
		}
	}
}
