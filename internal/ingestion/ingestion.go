// Package ingestion implements C8: chunking and persisting an
// ExternalDocument (or any other document body) into the vector store.
package ingestion

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"
	"poultryqa/internal/objectstore"
	"poultryqa/internal/rag/chunker"
	"poultryqa/internal/rag/embedder"
	"poultryqa/internal/vectorstore"
)

// Result is what Ingest reports back to the caller.
type Result struct {
	Skipped       bool // duplicate check matched an existing document
	ChunksWritten int
	DocumentID    string
	RawObjectKey  string // empty when no archive store is configured
}

// Service wires the chunker, embedder, and vector store together. An
// EventPublisher is optional: when nil, no ingestion events are emitted.
// Archive is optional: when nil, the raw document body is chunked and
// embedded but not separately archived.
type Service struct {
	Embedder embedder.Embedder
	Store    vectorstore.Store
	Events   EventPublisher
	Archive  objectstore.ObjectStore
	Options  chunker.ChunkingOptions
}

// New builds a Service from ingestion configuration.
func New(cfg config.IngestionConfig, emb embedder.Embedder, store vectorstore.Store, events EventPublisher, archive objectstore.ObjectStore) *Service {
	return &Service{
		Embedder: emb,
		Store:    store,
		Events:   events,
		Archive:  archive,
		Options: chunker.ChunkingOptions{
			Strategy:     "semantic",
			MinWords:     firstPositive(cfg.MinWords, 50),
			MaxWords:     firstPositive(cfg.MaxWords, 1200),
			OverlapWords: firstPositive(cfg.OverlapWords, 240),
		},
	}
}

func firstPositive(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Ingest chunks doc's body, skips it if a duplicate is already persisted,
// embeds and writes each chunk individually, and emits a document.ingested
// event on success. Success is defined as at least one chunk persisted.
func (s *Service) Ingest(ctx context.Context, doc domain.ExternalDocument, queryContext, language string) (Result, error) {
	dup, err := s.isDuplicate(ctx, doc)
	if err != nil {
		return Result{}, domain.NewVectorStoreError(domain.ComponentIngestion, "duplicate check", err)
	}
	if dup {
		return Result{Skipped: true}, nil
	}

	body := doc.Title
	if doc.Abstract != "" {
		body += "\n\n" + doc.Abstract
	}
	if doc.FullText != "" {
		body += "\n\n" + doc.FullText
	}

	rawChunks, err := (chunker.SimpleChunker{}).Chunk(body, s.Options)
	if err != nil {
		return Result{}, fmt.Errorf("chunk document: %w", err)
	}
	if len(rawChunks) == 0 {
		return Result{}, nil
	}

	sourceID := doc.IdentityKey(normalizeTitle)
	documentID := uuid.NewString()
	ingestedAt := time.Now()

	rawObjectKey := s.archiveRawBody(ctx, documentID, body)

	texts := make([]string, len(rawChunks))
	for i, c := range rawChunks {
		texts[i] = c.Text
	}
	vectors, err := s.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return Result{}, domain.NewEmbeddingError(domain.ComponentIngestion, err)
	}

	written := 0
	for i, c := range rawChunks {
		chunk := domain.VectorChunk{
			ChunkID: documentID + ":" + strconv.Itoa(i),
			Content: c.Text,
			Metadata: domain.ChunkMetadata{
				SourceID:     sourceID,
				SourceType:   domain.SourceExternalDocument,
				DOI:          doc.DOI,
				PMID:         doc.PMID,
				CitationCount: doc.CitationCount,
				IngestedAt:   ingestedAt,
				QueryContext: queryContext,
				ChunkIndex:   i,
				TotalChunks:  len(rawChunks),
				IsFirstChunk: i == 0,
				IsLastChunk:  i == len(rawChunks)-1,
			},
		}
		if i >= len(vectors) {
			continue
		}
		if err := s.Store.Upsert(ctx, chunk.ChunkID, vectors[i], vectorstore.EncodeChunk(chunk)); err != nil {
			continue
		}
		written++
	}

	if written == 0 {
		return Result{}, domain.NewVectorStoreError(domain.ComponentIngestion, "no chunk could be persisted", nil)
	}

	if s.Events != nil {
		_ = s.Events.PublishIngested(ctx, IngestedEvent{
			DocumentID:    documentID,
			SourceID:      sourceID,
			ChunksWritten: written,
			Language:      language,
			IngestedAt:    ingestedAt,
		})
	}

	return Result{ChunksWritten: written, DocumentID: documentID, RawObjectKey: rawObjectKey}, nil
}

// archiveRawBody persists the assembled document body under its generated
// ID, for cases a caller wants the original text back rather than only its
// chunk embeddings. Archival failure never fails ingestion itself — the
// vector-store write is what Ingest actually promises.
func (s *Service) archiveRawBody(ctx context.Context, documentID, body string) string {
	if s.Archive == nil {
		return ""
	}
	key := "documents/" + documentID + ".txt"
	if _, err := s.Archive.Put(ctx, key, strings.NewReader(body), objectstore.PutOptions{ContentType: "text/plain; charset=utf-8"}); err != nil {
		log.Warn().Err(err).Str("document_id", documentID).Msg("raw document archive failed")
		return ""
	}
	return key
}

func normalizeTitle(title string) string {
	return strings.TrimSpace(strings.ToLower(title))
}

// isDuplicate checks, in order, DOI, then PMID, then the document's
// IdentityKey (normalized title and year only when the document has no
// DOI, PMID or PMCID) against whatever is already in the vector store. The store
// interface has no dedicated metadata-only lookup, so this issues a
// zero-vector SimilaritySearch — the filter alone determines the match;
// the (meaningless) similarity score is never consulted.
func (s *Service) isDuplicate(ctx context.Context, doc domain.ExternalDocument) (bool, error) {
	checks := make([]map[string]string, 0, 3)
	if doc.DOI != "" {
		checks = append(checks, map[string]string{vectorstore.MetaDOI: doc.DOI})
	}
	if doc.PMID != "" {
		checks = append(checks, map[string]string{vectorstore.MetaPMID: doc.PMID})
	}
	checks = append(checks, map[string]string{vectorstore.MetaSourceID: doc.IdentityKey(normalizeTitle)})

	probe := make([]float32, s.Store.Dimension())
	for _, filter := range checks {
		hits, err := s.Store.SimilaritySearch(ctx, probe, 1, filter)
		if err != nil {
			return false, err
		}
		if len(hits) > 0 {
			return true, nil
		}
	}
	return false, nil
}
