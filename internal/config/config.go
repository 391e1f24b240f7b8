// Package config loads runtime configuration for the poultry husbandry
// question-answering engine from the environment (with an optional .env
// overlay), following the same shape the rest of the module expects:
// one Config struct, populated once at startup, passed by value into the
// components that need it.
package config

// AnthropicPromptCacheConfig controls Anthropic prompt-cache breakpoints.
type AnthropicPromptCacheConfig struct {
	Enabled       bool
	CacheSystem   bool
	CacheTools    bool
	CacheMessages bool
}

// OpenAIConfig configures the OpenAI (or OpenAI-compatible) chat backend.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	ExtraParams map[string]any
	LogPayloads bool
}

// AnthropicConfig configures the Anthropic chat backend.
type AnthropicConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	PromptCache AnthropicPromptCacheConfig
	ExtraParams map[string]any
}

// GoogleConfig configures the Gemini chat backend.
type GoogleConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout int // seconds
}

// LLMConfig selects and configures the completion provider used across the
// engine: intent extraction fallback, clarification question generation,
// synthesis, and response enhancement all go through the same provider.
type LLMConfig struct {
	Provider  string // "openai" | "anthropic" | "google"
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Google    GoogleConfig
}

// EmbeddingConfig configures the embedding endpoint used to vectorize
// queries and document chunks.
type EmbeddingConfig struct {
	BaseURL    string
	Model      string
	APIKey     string
	APIHeader  string
	Path       string
	Timeout    int // seconds
	Dimensions int
	Headers    map[string]string
}

// PerfStoreConfig configures the relational performance-table backend.
type PerfStoreConfig struct {
	DSN string
}

// VectorStoreConfig configures the nearest-neighbor document store.
type VectorStoreConfig struct {
	Backend    string // "qdrant" | "memory"
	DSN        string
	Collection string
	Dimensions int
	Metric     string // cosine|l2|ip
}

// RedisConfig configures the cache used for pending clarification sessions
// and external-source dedup bookkeeping.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClickHouseConfig configures the domain-gate rejection audit sink.
type ClickHouseConfig struct {
	DSN   string
	Table string
}

// KafkaConfig configures the ingestion event producer.
type KafkaConfig struct {
	Brokers        string
	IngestedTopic  string
	RequiredAcks   int
	AsyncProducing bool
}

// S3SSEConfig controls server-side encryption for the raw-document object
// store.
type S3SSEConfig struct {
	Mode     string // "none" | "aes256" | "aws:kms"
	KMSKeyID string
}

// S3Config configures the object store backing raw document blobs.
type S3Config struct {
	Endpoint              string
	Region                string
	Bucket                string
	Prefix                string
	AccessKey             string
	SecretKey             string
	UsePathStyle          bool
	TLSInsecureSkipVerify bool
	SSE                   S3SSEConfig
}

// ObsConfig controls OpenTelemetry trace export.
type ObsConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLP           string
}

// ExternalSourceConfig configures one adapter in the external source fan-out.
type ExternalSourceConfig struct {
	Name      string
	Enabled   bool
	BaseURL   string
	APIKey    string
	Weight    float64
	RPS       float64
	Burst     int
	TimeoutMS int
}

// IngestionConfig tunes chunking and ingestion worker behavior.
type IngestionConfig struct {
	MinWords     int
	MaxWords     int
	OverlapWords int
	MaxWorkers   int
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Host string
	Port int

	LogPath  string
	LogLevel string

	DefaultLanguage string

	LLM       LLMConfig
	Embedding EmbeddingConfig

	PerfStore   PerfStoreConfig
	VectorStore VectorStoreConfig
	Redis       RedisConfig
	ClickHouse  ClickHouseConfig
	Kafka       KafkaConfig
	S3          S3Config
	Obs         ObsConfig
	Ingestion   IngestionConfig

	ExternalSources []ExternalSourceConfig
}
