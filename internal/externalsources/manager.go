// Package externalsources implements C7: parallel fan-out to external
// academic/agricultural APIs, deduplication, and composite ranking.
package externalsources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"
	"poultryqa/internal/rag/embedder"
)

const (
	defaultMinYear           = 2015
	defaultMaxResultsPerSrc  = 5
	abstractCharsForEmbedding = 500
)

// sourceWeights are the reputation fallback weights, used when
// an adapter's configured Weight is zero (unset).
var sourceWeights = map[string]float64{
	"semantic_scholar": 1.0,
	"pubmed":           1.0,
	"europe_pmc":       0.9,
	"fao":              0.8,
}

// Manager coordinates the fan-out across all enabled adapters.
type Manager struct {
	adapters []Adapter
	embedder embedder.Embedder
}

// New builds a Manager from configuration, constructing one adapter per
// enabled entry. Unknown adapter names are skipped.
func New(cfgs []config.ExternalSourceConfig, emb embedder.Embedder) *Manager {
	m := &Manager{embedder: emb}
	for _, cfg := range cfgs {
		if !cfg.Enabled {
			continue
		}
		if w, ok := sourceWeights[cfg.Name]; ok && cfg.Weight == 0 {
			cfg.Weight = w
		}
		switch cfg.Name {
		case "semantic_scholar":
			m.adapters = append(m.adapters, newSemanticScholar(cfg))
		case "pubmed":
			m.adapters = append(m.adapters, newPubMed(cfg))
		case "europe_pmc":
			m.adapters = append(m.adapters, newEuropePMC(cfg))
		case "fao":
			m.adapters = append(m.adapters, newFAO(cfg))
		}
	}
	return m
}

// Search runs the full fan-out algorithm: fan-out, collect, dedup, score,
// rank. It never returns an error for partial source failure — only
// found=false when every source failed or returned nothing.
func (m *Manager) Search(ctx context.Context, query, language string, maxResultsPerSource, minYear int) domain.ExternalSearchResult {
	start := time.Now()
	if maxResultsPerSource <= 0 {
		maxResultsPerSource = defaultMaxResultsPerSrc
	}
	if minYear <= 0 {
		minYear = defaultMinYear
	}

	if len(m.adapters) == 0 {
		return domain.ExternalSearchResult{
			Found:           false,
			SourcesSearched: 0,
			SearchDurationMS: time.Since(start).Milliseconds(),
			Error:           errors.New("no external sources enabled"),
		}
	}

	all, succeeded := m.fanOut(ctx, query, maxResultsPerSource, minYear)
	if len(all) == 0 {
		return domain.ExternalSearchResult{
			Found:            false,
			SourcesSearched:  len(m.adapters),
			SourcesSucceeded: succeeded,
			SearchDurationMS: time.Since(start).Milliseconds(),
			Error:            errors.New("no documents found in any source"),
		}
	}

	unique := dedupe(all)
	unique = m.scoreRelevance(ctx, query, unique)
	weights := make(map[string]float64, len(m.adapters))
	for _, a := range m.adapters {
		weights[a.Name()] = a.Weight()
	}
	ranked := rank(unique, weights, time.Now().Year())

	topN := ranked
	if len(topN) > 5 {
		topN = topN[:5]
	}

	return domain.ExternalSearchResult{
		Found:            true,
		SourcesSearched:  len(m.adapters),
		SourcesSucceeded: succeeded,
		TotalResults:     len(all),
		UniqueResults:    len(unique),
		SearchDurationMS: time.Since(start).Milliseconds(),
		BestDocument:     &topN[0],
		AllDocuments:     topN,
	}
}

// fanOut spawns one goroutine per adapter. A failing adapter never cancels
// its peers — its error is simply not counted toward sources_succeeded.
func (m *Manager) fanOut(ctx context.Context, query string, maxResults, minYear int) ([]domain.ExternalDocument, int) {
	type outcome struct {
		docs []domain.ExternalDocument
		err  error
	}
	results := make([]outcome, len(m.adapters))

	var g errgroup.Group
	for i, a := range m.adapters {
		i, a := i, a
		g.Go(func() error {
			docs, err := a.Search(ctx, query, maxResults, minYear)
			results[i] = outcome{docs: docs, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.ExternalDocument
	succeeded := 0
	for _, r := range results {
		if r.err != nil {
			continue
		}
		if len(r.docs) > 0 {
			succeeded++
		}
		all = append(all, r.docs...)
	}
	return all, succeeded
}

// scoreRelevance computes one query embedding, then one batched
// document-embedding call over (title + first 500 chars of abstract). On
// embedding failure every document gets the 0.5 neutral fallback.
func (m *Manager) scoreRelevance(ctx context.Context, query string, docs []domain.ExternalDocument) []domain.ExternalDocument {
	if m.embedder == nil || len(docs) == 0 {
		return fallbackRelevance(docs)
	}

	queryVecs, err := m.embedder.EmbedBatch(ctx, []string{query})
	if err != nil || len(queryVecs) == 0 {
		return fallbackRelevance(docs)
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		abstract := d.Abstract
		if len(abstract) > abstractCharsForEmbedding {
			abstract = abstract[:abstractCharsForEmbedding]
		}
		texts[i] = fmt.Sprintf("%s. %s", d.Title, abstract)
	}

	docVecs, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(docVecs) != len(docs) {
		return fallbackRelevance(docs)
	}

	for i := range docs {
		docs[i].RelevanceScore = cosineSimilarity(queryVecs[0], docVecs[i])
	}
	return docs
}

func fallbackRelevance(docs []domain.ExternalDocument) []domain.ExternalDocument {
	for i := range docs {
		docs[i].RelevanceScore = 0.5
	}
	return docs
}
