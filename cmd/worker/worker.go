package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"document-chat-platform/internal/ai"
	"document-chat-platform/internal/config"
	"document-chat-platform/internal/embedding"
	"document-chat-platform/internal/logger"
	"document-chat-platform/internal/queue"
	"document-chat-platform/internal/store"
	"document-chat-platform/internal/telemetry"
	"document-chat-platform/internal/vectorstore"
	"document-chat-platform/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
		metrics = nil
	}

	var geminiClient *ai.GeminiClient
	var provider embedding.Provider
	if cfg.EmbeddingMode == config.EmbeddingModeRemote {
		geminiClient, err = ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GoogleEmbeddingsModel)
		if err != nil {
			log.Fatal("Failed to initialize Gemini client:", err)
		}
		defer geminiClient.Close()
		provider = embedding.NewGeminiProvider(geminiClient, cfg.VectorDimensions)
	} else {
		provider = embedding.NewLocalProvider(cfg.VectorDimensions)
	}

	if rdb, rerr := config.NewRedisClient(cfg); rerr == nil {
		provider = embedding.NewCachedProvider(provider, rdb, 24*time.Hour)
		defer rdb.Close()
	} else {
		logger.Warn("redis cache unavailable", "error", rerr)
	}

	splitter, err := services.NewTextSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatal("Invalid chunking config:", err)
	}

	documents, err := services.NewDocumentService(
		cfg,
		splitter,
		services.NewPDFExtractor(),
		provider,
		vectorstore.NewMongoIndex(db),
		store.NewMongoMetadataStore(db),
		metrics,
	)
	if err != nil {
		log.Fatal("Failed to initialize document service:", err)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"ingestion": 6,
				"default":   3,
				"low":       1,
			},
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(documents)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskProcessDocument, processor.ProcessDocument)

	logger.Info("starting ingestion worker", "redis", redisOpt.Addr, "concurrency", 10)

	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
