package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Ingest   IngestConfig
	Search   SearchConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	ReindexTopic string // Async reindex queue topic
}

type AIConfig struct {
	EmbeddingProvider  string // "gemini" or "ollama"
	EmbeddingDimension int
	OllamaBaseURL      string
	OllamaModel        string
}

type IngestConfig struct {
	ChunkSize    int // words per chunk
	ChunkOverlap int // words shared between consecutive chunks
}

type SearchConfig struct {
	MinSimilarity float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			ReindexTopic: getEnv("REINDEX_DOCUMENT_TOPIC_NAME", "REINDEX_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Ingest: IngestConfig{
			ChunkSize:    getEnvAsInt("CHUNK_SIZE_WORDS", 512),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP_WORDS", 50),
		},
		Search: SearchConfig{
			MinSimilarity: getEnvAsFloat("SEARCH_MIN_SIMILARITY", 0.6),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
