package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"document-chat-platform/internal/logger"
)

// ReprocessScheduler periodically retries ingestion of failed documents.
type ReprocessScheduler struct {
	scheduler *gocron.Scheduler
	documents *DocumentService
	interval  time.Duration
}

func NewReprocessScheduler(documents *DocumentService, interval time.Duration) *ReprocessScheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &ReprocessScheduler{
		scheduler: s,
		documents: documents,
		interval:  interval,
	}
}

func (r *ReprocessScheduler) Start() error {
	_, err := r.scheduler.Every(r.interval).Tag("reprocess-failed").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		logger.Debug("running failed-document reprocess job")
		r.documents.ReprocessFailed(ctx)
	})
	if err != nil {
		return err
	}
	r.scheduler.StartAsync()
	logger.Info("reprocess scheduler started", "interval", r.interval.String())
	return nil
}

func (r *ReprocessScheduler) Stop() {
	r.scheduler.Stop()
}
