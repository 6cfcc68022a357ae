package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"document-chat-platform/internal/logger"
	"document-chat-platform/internal/store"
	"document-chat-platform/services"
)

const TaskProcessDocument = "document:process"

type DocumentProcessPayload struct {
	DocumentID string `json:"document_id"`
}

func NewDocumentProcessTask(documentID string) (*asynq.Task, error) {
	payload, err := json.Marshal(DocumentProcessPayload{DocumentID: documentID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskProcessDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("ingestion"),
	), nil
}

type TaskProcessor struct {
	documents *services.DocumentService
}

func NewTaskProcessor(documents *services.DocumentService) *TaskProcessor {
	return &TaskProcessor{documents: documents}
}

func (p *TaskProcessor) ProcessDocument(ctx context.Context, t *asynq.Task) error {
	var payload DocumentProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	logger.Info("processing queued document", "document_id", payload.DocumentID)

	if _, err := p.documents.Process(ctx, payload.DocumentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Record deleted between enqueue and pickup.
			return fmt.Errorf("document %s not found: %w", payload.DocumentID, asynq.SkipRetry)
		}
		if errors.Is(err, services.ErrUnsupportedFormat) || errors.Is(err, services.ErrExtractionFailure) {
			// Retrying cannot fix a broken file.
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	return nil
}
