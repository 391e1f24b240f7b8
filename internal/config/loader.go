package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func getenv(key string) string {
	return os.Getenv(key)
}

// Load reads configuration from environment variables (optionally a local
// .env file, which takes precedence so repo-local dev config is deterministic).
func Load() (Config, error) {
	_ = godotenv.Overload()

	cfg := Config{}

	cfg.Host = firstNonEmpty(strings.TrimSpace(getenv("HOST")), "0.0.0.0")
	cfg.Port = envInt("PORT", 8090)
	cfg.LogPath = strings.TrimSpace(getenv("LOG_PATH"))
	cfg.LogLevel = firstNonEmpty(strings.TrimSpace(getenv("LOG_LEVEL")), "info")
	cfg.DefaultLanguage = firstNonEmpty(strings.TrimSpace(getenv("DEFAULT_LANGUAGE")), "en")

	cfg.LLM.Provider = firstNonEmpty(strings.TrimSpace(getenv("LLM_PROVIDER")), "openai")
	cfg.LLM.OpenAI = OpenAIConfig{
		APIKey:      getenv("OPENAI_API_KEY"),
		Model:       firstNonEmpty(getenv("OPENAI_MODEL"), "gpt-4o-mini"),
		BaseURL:     getenv("OPENAI_BASE_URL"),
		LogPayloads: envBool("LOG_PAYLOADS", false),
	}
	cfg.LLM.Anthropic = AnthropicConfig{
		APIKey:  getenv("ANTHROPIC_API_KEY"),
		Model:   getenv("ANTHROPIC_MODEL"),
		BaseURL: getenv("ANTHROPIC_BASE_URL"),
		PromptCache: AnthropicPromptCacheConfig{
			Enabled: envBool("ANTHROPIC_PROMPT_CACHE_ENABLED", false),
		},
	}
	cfg.LLM.Google = GoogleConfig{
		APIKey:  getenv("GOOGLE_LLM_API_KEY"),
		Model:   getenv("GOOGLE_LLM_MODEL"),
		BaseURL: getenv("GOOGLE_LLM_BASE_URL"),
		Timeout: envInt("GOOGLE_LLM_TIMEOUT_SECONDS", 30),
	}
	switch cfg.LLM.Provider {
	case "openai", "anthropic", "google":
	default:
		return Config{}, fmt.Errorf("llm provider must be one of openai, anthropic, google (got %q)", cfg.LLM.Provider)
	}

	cfg.Embedding = EmbeddingConfig{
		BaseURL:    firstNonEmpty(getenv("EMBED_BASE_URL"), "https://api.openai.com"),
		Model:      firstNonEmpty(getenv("EMBED_MODEL"), "text-embedding-3-small"),
		APIKey:     firstNonEmpty(getenv("EMBED_API_KEY"), getenv("OPENAI_API_KEY")),
		APIHeader:  firstNonEmpty(getenv("EMBED_API_HEADER"), "Authorization"),
		Path:       firstNonEmpty(getenv("EMBED_PATH"), "/v1/embeddings"),
		Timeout:    envInt("EMBED_TIMEOUT_SECONDS", 30),
		Dimensions: envInt("EMBED_DIMENSIONS", 1536),
	}

	cfg.PerfStore = PerfStoreConfig{
		DSN: firstNonEmpty(getenv("PERFSTORE_DSN"), getenv("DATABASE_URL")),
	}

	cfg.VectorStore = VectorStoreConfig{
		Backend:    firstNonEmpty(getenv("VECTOR_BACKEND"), autoBackend(getenv("QDRANT_DSN"))),
		DSN:        firstNonEmpty(getenv("QDRANT_DSN"), "http://localhost:6334"),
		Collection: firstNonEmpty(getenv("VECTOR_COLLECTION"), "poultry_documents"),
		Dimensions: envInt("VECTOR_DIMENSIONS", cfg.Embedding.Dimensions),
		Metric:     firstNonEmpty(getenv("VECTOR_METRIC"), "cosine"),
	}

	cfg.Redis = RedisConfig{
		Addr:     firstNonEmpty(getenv("REDIS_ADDR"), "localhost:6379"),
		Password: getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
	}

	cfg.ClickHouse = ClickHouseConfig{
		DSN:   getenv("CLICKHOUSE_DSN"),
		Table: firstNonEmpty(getenv("CLICKHOUSE_REJECTIONS_TABLE"), "domain_rejections"),
	}

	cfg.Kafka = KafkaConfig{
		Brokers:        firstNonEmpty(getenv("KAFKA_BROKERS"), "localhost:9092"),
		IngestedTopic:  firstNonEmpty(getenv("KAFKA_INGESTED_TOPIC"), "poultryqa.document.ingested"),
		RequiredAcks:   envInt("KAFKA_REQUIRED_ACKS", 1),
		AsyncProducing: envBool("KAFKA_ASYNC", true),
	}

	cfg.S3 = S3Config{
		Endpoint:              getenv("S3_ENDPOINT"),
		Region:                firstNonEmpty(getenv("S3_REGION"), "us-east-1"),
		Bucket:                firstNonEmpty(getenv("S3_BUCKET"), "poultryqa-documents"),
		Prefix:                firstNonEmpty(getenv("S3_PREFIX"), "raw"),
		AccessKey:             getenv("S3_ACCESS_KEY"),
		SecretKey:             getenv("S3_SECRET_KEY"),
		UsePathStyle:          envBool("S3_USE_PATH_STYLE", false),
		TLSInsecureSkipVerify: envBool("S3_TLS_INSECURE", false),
		SSE: S3SSEConfig{
			Mode:     firstNonEmpty(getenv("S3_SSE_MODE"), "none"),
			KMSKeyID: getenv("S3_SSE_KMS_KEY_ID"),
		},
	}

	cfg.Obs = ObsConfig{
		ServiceName:    firstNonEmpty(getenv("OTEL_SERVICE_NAME"), "poultryqa"),
		ServiceVersion: firstNonEmpty(getenv("SERVICE_VERSION"), "dev"),
		Environment:    firstNonEmpty(getenv("ENVIRONMENT"), "dev"),
		OTLP:           getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	cfg.Ingestion = IngestionConfig{
		MinWords:     envInt("INGEST_MIN_WORDS", 50),
		MaxWords:     envInt("INGEST_MAX_WORDS", 1200),
		OverlapWords: envInt("INGEST_OVERLAP_WORDS", 240),
		MaxWorkers:   envInt("INGEST_MAX_WORKERS", 4),
	}

	cfg.ExternalSources = loadExternalSources()

	if cfg.LLM.Provider == "openai" && cfg.LLM.OpenAI.APIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
	}
	if cfg.LLM.Provider == "anthropic" && cfg.LLM.Anthropic.APIKey == "" {
		return Config{}, errors.New("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
	}
	if cfg.LLM.Provider == "google" && cfg.LLM.Google.APIKey == "" {
		return Config{}, errors.New("GOOGLE_LLM_API_KEY is required when LLM_PROVIDER=google")
	}

	return cfg, nil
}

// loadExternalSources builds the fixed four-adapter fan-out list (semantic
// scholar, PubMed, Europe PMC, FAO/agricultural publications), picking up
// per-source API keys and rate limits from the environment. Each weight is
// that source's reputation prior, which the source manager uses as the
// source term of its composite ranking score.
func loadExternalSources() []ExternalSourceConfig {
	defs := []struct {
		name      string
		envPrefix string
		baseURL   string
		weight    float64
	}{
		{"semantic_scholar", "SEMANTIC_SCHOLAR", "https://api.semanticscholar.org/graph/v1", 1.0},
		{"pubmed", "PUBMED", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils", 1.0},
		{"europe_pmc", "EUROPE_PMC", "https://www.ebi.ac.uk/europepmc/webservices/rest", 0.9},
		{"fao", "FAO", "https://www.fao.org/faostat/api/v1", 0.8},
	}
	out := make([]ExternalSourceConfig, 0, len(defs))
	for _, d := range defs {
		out = append(out, ExternalSourceConfig{
			Name:      d.name,
			Enabled:   envBool(d.envPrefix+"_ENABLED", true),
			BaseURL:   firstNonEmpty(getenv(d.envPrefix+"_BASE_URL"), d.baseURL),
			APIKey:    getenv(d.envPrefix + "_API_KEY"),
			Weight:    d.weight,
			RPS:       envFloat(d.envPrefix+"_RPS", 2.0),
			Burst:     envInt(d.envPrefix+"_BURST", 4),
			TimeoutMS: envInt(d.envPrefix+"_TIMEOUT_MS", 8000),
		})
	}
	return out
}

func autoBackend(dsn string) string {
	if strings.TrimSpace(dsn) == "" {
		return "memory"
	}
	return "qdrant"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}
