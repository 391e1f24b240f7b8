// Package engine wires every component into the five public endpoints the
// API layer calls: ask, answer_clarification, expand_knowledge, perf_lookup,
// and health. It owns no business logic of its own beyond the data-flow
// order between components and the internal-error-to-domain.Err mapping
// each endpoint needs.
package engine

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"poultryqa/internal/agentrag"
	"poultryqa/internal/clarify"
	"poultryqa/internal/config"
	"poultryqa/internal/domain"
	"poultryqa/internal/domaingate"
	"poultryqa/internal/entities"
	"poultryqa/internal/enhancer"
	"poultryqa/internal/externalsources"
	"poultryqa/internal/hybrid"
	"poultryqa/internal/ingestion"
	"poultryqa/internal/llm/providers"
	"poultryqa/internal/objectstore"
	"poultryqa/internal/observability"
	"poultryqa/internal/perfstore"
	"poultryqa/internal/rag/embedder"
	"poultryqa/internal/router"
	"poultryqa/internal/stepdag"
	"poultryqa/internal/vectorretriever"
	"poultryqa/internal/vectorstore"
)

// Engine composes every component and implements the public API surface.
type Engine struct {
	Extractor   *entities.Extractor
	Clarifier   *clarify.Engine
	Pending     *clarify.PendingStore
	Gate        *domaingate.Gate
	Hybrid      *hybrid.Engine
	AgentRAG    *agentrag.Engine
	Orchestrator *stepdag.Orchestrator
	Enhancer    *enhancer.Engine
	Sources     *externalsources.Manager
	Ingestion   *ingestion.Service
	PerfStore   *perfstore.Client

	DefaultLanguage string

	vectorStore vectorstore.Store
	auditSink   domaingate.RejectionAuditSink
	events      *ingestion.KafkaEventPublisher
}

// closer is implemented by every optional collaborator Engine.Close shuts
// down; components that were never wired (e.g. Redis unconfigured) are
// simply nil and skipped.
type closer interface {
	Close() error
}

// New wires every component from cfg, following the same graceful-degrade
// pattern as the command-line agent this is adapted from: a dependency that
// fails to connect is logged as a warning and the corresponding component
// is left degraded (nil) rather than aborting startup, except where the
// dependency is load-bearing for every endpoint (the completion provider).
func New(ctx context.Context, cfg config.Config) (*Engine, error) {
	httpClient := observability.NewHTTPClient(nil)

	provider, err := providers.Build(cfg, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build completion provider: %w", err)
	}

	emb := buildEmbedder(cfg)

	store, err := buildVectorStore(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("vector store unavailable, falling back to in-memory store")
		store = vectorstore.NewMemory(cfg.VectorStore.Dimensions)
	}

	var perf *perfstore.Client
	if cfg.PerfStore.DSN != "" {
		pool, err := perfstore.OpenPool(ctx, cfg.PerfStore.DSN)
		if err != nil {
			log.Warn().Err(err).Msg("performance store unavailable, PERF_STORE route will degrade")
		} else {
			perf = perfstore.NewClient(pool)
		}
	}

	var pending *clarify.PendingStore
	if cfg.Redis.Addr != "" {
		pending, err = clarify.NewPendingStore(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("pending-clarification store unavailable, answer_clarification will degrade")
			pending = nil
		}
	}

	var audit domaingate.RejectionAuditSink
	if cfg.ClickHouse.DSN != "" {
		sink, err := domaingate.NewClickHouseAuditSink(ctx, cfg.ClickHouse)
		if err != nil {
			log.Warn().Err(err).Msg("domain-gate audit sink unavailable, rejections will not be persisted")
		} else {
			audit = sink
		}
	}

	events, err := ingestion.NewKafkaEventPublisher(cfg.Kafka)
	if err != nil {
		log.Warn().Err(err).Msg("kafka event publisher unavailable, ingestion events will not be emitted")
		events = nil
	}

	var archive objectstore.ObjectStore
	if cfg.S3.Bucket != "" {
		s3Store, err := objectstore.NewS3Store(ctx, cfg.S3)
		if err != nil {
			log.Warn().Err(err).Msg("object store unavailable, raw documents will not be archived")
		} else {
			archive = s3Store
		}
	}

	retriever := vectorretriever.New(emb, store)
	rtr := router.New()

	// perf is a *perfstore.Client that may be a nil pointer when the DSN
	// wasn't configured; wrapping a nil pointer straight into an interface
	// value would make every "!= nil" collaborator check below see a
	// non-nil interface holding a nil pointer, so these are only assigned
	// when perf is genuinely non-nil.
	var hybridPerf hybrid.PerfStore
	var stepdagPerf stepdag.PerfStore
	if perf != nil {
		hybridPerf = perf
		stepdagPerf = perf
	}

	hybridEngine := hybrid.New(rtr, hybridPerf, retriever, provider)

	return &Engine{
		Extractor:    entities.New(provider),
		Clarifier:    clarify.New(provider),
		Pending:      pending,
		Gate:         domaingate.New(domaingate.DefaultConfig(), audit, log.Logger),
		Hybrid:       hybridEngine,
		AgentRAG:     agentrag.New(hybridEngine, provider),
		Orchestrator: stepdag.New(stepdagPerf),
		Enhancer:     enhancer.New(provider),
		Sources:      externalsources.New(cfg.ExternalSources, emb),
		Ingestion:    ingestion.New(cfg.Ingestion, emb, store, events, archive),
		PerfStore:    perf,

		DefaultLanguage: cfg.DefaultLanguage,

		vectorStore: store,
		auditSink:   audit,
		events:      events,
	}, nil
}

func buildEmbedder(cfg config.Config) embedder.Embedder {
	if cfg.Embedding.BaseURL == "" {
		log.Warn().Msg("embedding endpoint not configured, using deterministic local embedder")
		return embedder.NewDeterministic(dimOrDefault(cfg.VectorStore.Dimensions), true, 0)
	}
	return embedder.NewClient(cfg.Embedding, dimOrDefault(cfg.VectorStore.Dimensions))
}

func buildVectorStore(cfg config.Config) (vectorstore.Store, error) {
	if cfg.VectorStore.Backend != "qdrant" {
		return vectorstore.NewMemory(dimOrDefault(cfg.VectorStore.Dimensions)), nil
	}
	return vectorstore.NewQdrant(cfg.VectorStore.DSN, cfg.VectorStore.Collection, dimOrDefault(cfg.VectorStore.Dimensions), cfg.VectorStore.Metric)
}

func dimOrDefault(d int) int {
	if d > 0 {
		return d
	}
	return 768
}

// Close releases every optional collaborator that owns a live connection.
func (e *Engine) Close() {
	var closers []closer
	if e.Pending != nil {
		closers = append(closers, e.Pending)
	}
	if c, ok := e.vectorStore.(closer); ok {
		closers = append(closers, c)
	}
	if e.auditSink != nil {
		if c, ok := e.auditSink.(closer); ok {
			closers = append(closers, c)
		}
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing engine collaborator")
		}
	}
	if e.events != nil {
		e.events.Close()
	}
}

// HTTPStatusFor maps a domain.Err's taxonomy name to the contract the API
// layer consumes. Errors that aren't a *domain.Err (unexpected internal
// failures) map to a generic 502, matching the "any error that empties the
// final answer surfaces as a generic 502" propagation policy.
func HTTPStatusFor(err error) int {
	de, ok := err.(*domain.Err)
	if !ok {
		return http.StatusBadGateway
	}
	switch de.Kind {
	case "ClarificationRequired":
		return http.StatusOK
	case "DomainRejected":
		return http.StatusUnprocessableEntity
	case "PerfStoreEmpty":
		return http.StatusNotFound
	case "ProviderError", "SourceError", "VectorStoreError", "PerfStoreBackend", "EmbeddingError":
		return http.StatusBadGateway
	case "Cancelled":
		return 499
	default:
		return http.StatusBadGateway
	}
}
