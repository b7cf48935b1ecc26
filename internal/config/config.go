package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	PostgresDSN string

	NATSURL     string
	NATSSubject string

	OllamaURL        string
	OllamaGenModel   string
	OllamaEmbedModel string

	QdrantURL        string
	QdrantCollection string

	CorpusPath string

	RetrievalStrategy string
	TopK              int
	ContextSeparator  string

	CorrectiveMarker string
	CorrectiveQuery  string

	GenerationMaxTokens int

	APIRateLimitRPS   int
	APIRateLimitBurst int
	APIMaxConcurrent  int

	WorkerMetricsPort string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		PostgresDSN: mustEnv("POSTGRES_DSN", ""),

		NATSURL:     mustEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubject: mustEnv("NATS_SUBJECT", "documents.ingested"),

		OllamaURL:        mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaGenModel:   mustEnv("OLLAMA_GEN_MODEL", "llama3.1:8b"),
		OllamaEmbedModel: mustEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),

		QdrantURL:        mustEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: mustEnv("QDRANT_COLLECTION", "documents"),

		CorpusPath: mustEnv("CORPUS_PATH", ""),

		RetrievalStrategy: mustEnv("RETRIEVAL_STRATEGY", "similarity"),
		TopK:              mustEnvInt("RETRIEVAL_TOP_K", 5),
		ContextSeparator:  mustEnv("CONTEXT_SEPARATOR", "\n\n"),

		CorrectiveMarker: mustEnv("CORRECTIVE_MARKER", ""),
		CorrectiveQuery:  mustEnv("CORRECTIVE_QUERY", ""),

		GenerationMaxTokens: mustEnvInt("GENERATION_MAX_TOKENS", 0),

		APIRateLimitRPS:   mustEnvInt("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 0),
		APIMaxConcurrent:  mustEnvInt("API_MAX_CONCURRENT", 0),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
