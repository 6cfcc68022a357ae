package main

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"document-chat-platform/internal/ai"
	"document-chat-platform/internal/config"
	"document-chat-platform/internal/embedding"
	"document-chat-platform/internal/logger"
	"document-chat-platform/internal/retrieval"
	"document-chat-platform/internal/store"
	"document-chat-platform/internal/telemetry"
	"document-chat-platform/internal/vectorstore"
	"document-chat-platform/services"
)

// dependencies holds the wired service graph for the HTTP server.
type dependencies struct {
	Redis     *redis.Client
	Gemini    *ai.GeminiClient
	Documents *services.DocumentService
	Chat      *services.ChatService
	Scheduler *services.ReprocessScheduler
}

func buildDependencies(cfg *config.Config, mongoClient *mongo.Client) (*dependencies, error) {
	db := mongoClient.Database(cfg.DBName)

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
		metrics = nil
	}

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		// Redis only backs caching and rate limiting. The pipeline works
		// without it.
		logger.Warn("redis unavailable", "error", err)
		rdb = nil
	}

	var geminiClient *ai.GeminiClient
	needsGemini := cfg.EmbeddingMode == config.EmbeddingModeRemote || cfg.AnswerMode == config.AnswerModeGenerative
	if needsGemini {
		geminiClient, err = ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GoogleEmbeddingsModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
	}

	var provider embedding.Provider
	if cfg.EmbeddingMode == config.EmbeddingModeRemote {
		provider = embedding.NewGeminiProvider(geminiClient, cfg.VectorDimensions)
	} else {
		provider = embedding.NewLocalProvider(cfg.VectorDimensions)
	}
	if rdb != nil {
		provider = embedding.NewCachedProvider(provider, rdb, 24*time.Hour)
	}

	index := vectorstore.NewMongoIndex(db)
	metadata := store.NewMongoMetadataStore(db)
	history := store.NewMongoHistoryStore(db)

	splitter, err := services.NewTextSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	documents, err := services.NewDocumentService(cfg, splitter, services.NewPDFExtractor(), provider, index, metadata, metrics)
	if err != nil {
		return nil, err
	}

	var composer services.AnswerComposer
	if cfg.AnswerMode == config.AnswerModeGenerative {
		composer = services.NewGenerativeComposer(geminiClient)
	} else {
		composer = services.NewExtractiveComposer()
	}

	retriever := retrieval.NewRetriever(provider, index, cfg.VectorCollection, cfg.RetrievalK)
	chat := services.NewChatService(retriever, composer, metadata, history, metrics)

	return &dependencies{
		Redis:     rdb,
		Gemini:    geminiClient,
		Documents: documents,
		Chat:      chat,
		Scheduler: services.NewReprocessScheduler(documents, 15*time.Minute),
	}, nil
}

func (d *dependencies) Close() {
	if d.Gemini != nil {
		d.Gemini.Close()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
}
