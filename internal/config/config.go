package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Embedding and answer mode constants.
const (
	EmbeddingModeLocal  = "local"
	EmbeddingModeRemote = "remote"

	AnswerModeGenerative = "generative"
	AnswerModeExtractive = "extractive"
)

type Config struct {
	MongoURI string
	DBName   string

	Port        string
	GinMode     string
	CORSOrigins []string

	MaxFileSize int64
	UploadDir   string

	// Retrieval pipeline
	ChunkSize        int
	ChunkOverlap     int
	EmbeddingMode    string // "local" or "remote"
	AnswerMode       string // "generative" or "extractive"
	RetrievalK       int
	VectorCollection string
	VectorDimensions int

	// Gemini (remote embeddings / generative answers)
	GeminiAPIKey          string
	GeminiModel           string
	GoogleEmbeddingsModel string

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Async ingestion
	AsyncProcessing bool

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Failed document reprocessing
	ReprocessCron bool

	// Telemetry
	OTLPEndpoint string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/document_chat"),
		DBName:   getEnv("DB_NAME", "document_chat"),

		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", 52428800), // 50MB
		UploadDir:   getEnv("UPLOAD_DIR", "./data/uploads"),

		ChunkSize:        getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 200),
		EmbeddingMode:    getEnv("EMBEDDING_MODE", EmbeddingModeLocal),
		AnswerMode:       getEnv("ANSWER_MODE", AnswerModeExtractive),
		RetrievalK:       getEnvInt("RETRIEVAL_K", 4),
		VectorCollection: getEnv("VECTOR_COLLECTION", "documents"),
		VectorDimensions: getEnvInt("VECTOR_DIM", 384),

		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AsyncProcessing: getEnvBool("ASYNC_PROCESSING", false),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		ReprocessCron: getEnvBool("REPROCESS_CRON", true),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	// Validate required fields
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	if cfg.ChunkSize <= 0 || cfg.ChunkOverlap < 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be positive and CHUNK_OVERLAP non-negative")
	}

	if cfg.RetrievalK <= 0 {
		return nil, fmt.Errorf("RETRIEVAL_K must be positive")
	}

	switch cfg.EmbeddingMode {
	case EmbeddingModeLocal, EmbeddingModeRemote:
	default:
		return nil, fmt.Errorf("unknown EMBEDDING_MODE: %s", cfg.EmbeddingMode)
	}

	switch cfg.AnswerMode {
	case AnswerModeGenerative, AnswerModeExtractive:
	default:
		return nil, fmt.Errorf("unknown ANSWER_MODE: %s", cfg.AnswerMode)
	}

	if (cfg.EmbeddingMode == EmbeddingModeRemote || cfg.AnswerMode == AnswerModeGenerative) && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for remote embeddings or generative answers - set it in .env file")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
