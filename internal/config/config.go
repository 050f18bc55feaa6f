package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL     string
	LLMModelName   string
	LLMAPIKey      string
	LLMTemperature float64

	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingRPS       float64 // Requests per second against the embeddings server (0 = unlimited)

	RerankBaseURL   string
	RerankModelName string
	RerankTopN      int

	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	DBPath     string
	DataDir    string // Holds staged uploads under uploads/
	LibraryDir string // Ingested by POST /api/v1/index

	ChunkSize    int
	ChunkOverlap int

	TopKRetrieval int
	FetchK        int
	MMRDiversity  float64

	AdminUsers []string

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the numeric ones.
// If a .env file exists in the current directory or one of its parents, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:11434"),
		LLMModelName:       getEnv("LLM_MODEL", "qwen2.5:14b"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "BAAI/bge-m3"),
		RerankBaseURL:      getEnv("RERANK_BASE_URL", "http://localhost:8082"),
		RerankModelName:    getEnv("RERANK_MODEL", "BAAI/bge-reranker-v2-m3"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "antigravity_rag"),
		DBPath:             getEnv("DB_PATH", "./data/docqa.db"),
		DataDir:            getEnv("DATA_DIR", "data"),
		LibraryDir:         getEnv("LIBRARY_DIR", "data/library"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		AdminUsers:         splitList(getEnv("ADMIN_USERS", "admin")),
	}

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"QDRANT_VECTOR_SIZE", 1024, &cfg.QdrantVectorSize},
		{"CHUNK_SIZE", 1000, &cfg.ChunkSize},
		{"CHUNK_OVERLAP", 200, &cfg.ChunkOverlap},
		{"TOP_K_RETRIEVAL", 10, &cfg.TopKRetrieval},
		{"FETCH_K", 20, &cfg.FetchK},
		{"RERANK_TOP_N", 3, &cfg.RerankTopN},
	}
	for _, f := range ints {
		v, err := getEnvInt(f.key, f.def)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	floats := []struct {
		key string
		def float64
		dst *float64
	}{
		{"LLM_TEMPERATURE", 0.1, &cfg.LLMTemperature},
		{"EMBEDDING_RPS", 0, &cfg.EmbeddingRPS},
		{"MMR_DIVERSITY", 0.5, &cfg.MMRDiversity},
	}
	for _, f := range floats {
		v, err := getEnvFloat(f.key, f.def)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.QdrantVectorSize <= 0 {
		return fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}
	if c.TopKRetrieval <= 0 {
		return fmt.Errorf("TOP_K_RETRIEVAL must be greater than 0")
	}
	if c.FetchK < c.TopKRetrieval {
		return fmt.Errorf("FETCH_K must be at least TOP_K_RETRIEVAL")
	}
	if c.RerankTopN <= 0 {
		return fmt.Errorf("RERANK_TOP_N must be greater than 0")
	}
	if c.MMRDiversity < 0 || c.MMRDiversity > 1 {
		return fmt.Errorf("MMR_DIVERSITY must be between 0 and 1")
	}
	if c.EmbeddingRPS < 0 {
		return fmt.Errorf("EMBEDDING_RPS must not be negative")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json")
	}
	return nil
}

// UploadDir returns the directory where uploads are staged before ingestion.
func (c *Config) UploadDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return level, nil
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
