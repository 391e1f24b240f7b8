// Package hybrid implements C9: route dispatch between the performance
// table and vector search.
package hybrid

import (
	"context"
	"sync"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"
	"poultryqa/internal/router"
)

const (
	lightContextTopK = 3
	fullVectorTopK   = 10
	looseEnrichThreshold = 0.3
	comparisonThreshold  = 0.5
)

// PerfStore is the subset of perfstore.Client that C9 depends on.
type PerfStore interface {
	Query(ctx context.Context, q domain.PerfQuery) (domain.PerfResult, error)
	Catalog(ctx context.Context) ([]string, error)
}

// VectorRetriever is the subset of vectorretriever.Retriever that C9
// depends on.
type VectorRetriever interface {
	Retrieve(ctx context.Context, queryText string, filters domain.RouteFilters, topK int) ([]domain.VectorChunk, error)
}

// Engine dispatches a query across PERF_STORE/VECTOR/HYBRID/CLARIFY per
// the route C4 picks, and asks the completion provider to narrate the
// result.
type Engine struct {
	Router    *router.Router
	PerfStore PerfStore
	Vector    VectorRetriever
	Provider  llm.Provider
}

// New builds an Engine from its collaborators.
func New(r *router.Router, perf PerfStore, vec VectorRetriever, provider llm.Provider) *Engine {
	return &Engine{Router: r, PerfStore: perf, Vector: vec, Provider: provider}
}

// Answer routes query and returns a synthesized answer. It never panics on
// a missing collaborator (e.g. PerfStore nil when only vector search is
// configured) — it degrades to whatever route is actually answerable.
func (e *Engine) Answer(ctx context.Context, query domain.Query, intent domain.Intent, entities domain.ExtractedEntities) (domain.SynthesizedAnswer, error) {
	decision := e.Router.Route(query.Text, entities)

	if e.PerfStore == nil && (decision.Route == domain.RoutePerfStore || decision.Route == domain.RouteHybrid) {
		decision.Route = domain.RouteVector
	}
	if e.Vector == nil && (decision.Route == domain.RouteVector || decision.Route == domain.RouteHybrid) {
		decision.Route = domain.RoutePerfStore
		if e.PerfStore == nil {
			decision.Route = domain.RouteClarify
		}
	}

	switch decision.Route {
	case domain.RoutePerfStore:
		return e.answerPerfStore(ctx, query, decision)
	case domain.RouteVector:
		return e.answerVector(ctx, query, decision)
	case domain.RouteHybrid:
		return e.answerHybrid(ctx, query, decision)
	default:
		return e.answerClarify(ctx, query)
	}
}

func (e *Engine) answerPerfStore(ctx context.Context, query domain.Query, decision router.Decision) (domain.SynthesizedAnswer, error) {
	perfResult, err := e.PerfStore.Query(ctx, perfQueryFrom(decision.Filters))
	if err != nil {
		if domain.IsInputError(err) {
			return e.answerClarify(ctx, query)
		}
		return domain.SynthesizedAnswer{}, err
	}

	contextText := ""
	if e.Vector != nil {
		if chunks, err := e.Vector.Retrieve(ctx, query.Text, decision.Filters, lightContextTopK); err == nil {
			contextText = formatChunks(chunks)
		}
	}

	prompt := perfSynthesisPrompt(query.Text, perfResult.Rows, contextText)
	text, err := e.complete(ctx, prompt)
	if err != nil {
		return domain.SynthesizedAnswer{}, err
	}

	return domain.SynthesizedAnswer{
		Text:       text,
		Confidence: perfResult.Confidence,
		Sources:    []string{"performance_table"},
		Coherence:  domain.CoherenceUnknown,
	}, nil
}

func (e *Engine) answerVector(ctx context.Context, query domain.Query, decision router.Decision) (domain.SynthesizedAnswer, error) {
	chunks, err := e.Vector.Retrieve(ctx, query.Text, decision.Filters, fullVectorTopK)
	if err != nil {
		return domain.SynthesizedAnswer{}, err
	}

	perfContext := ""
	if e.PerfStore != nil && decision.Scores.Performance > looseEnrichThreshold {
		if perfResult, err := e.PerfStore.Query(ctx, perfQueryFrom(decision.Filters)); err == nil {
			perfContext = formatPerfRows(perfResult.Rows)
		}
	}

	prompt := vectorSynthesisPrompt(query.Text, chunks, perfContext)
	text, err := e.complete(ctx, prompt)
	if err != nil {
		return domain.SynthesizedAnswer{}, err
	}

	return domain.SynthesizedAnswer{
		Text:       text,
		Confidence: ragConfidence(chunks),
		Sources:    []string{"vector_store"},
		Coherence:  domain.CoherenceUnknown,
	}, nil
}

func (e *Engine) answerHybrid(ctx context.Context, query domain.Query, decision router.Decision) (domain.SynthesizedAnswer, error) {
	var perfResult domain.PerfResult
	var chunks []domain.VectorChunk
	var perfErr, vecErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		perfResult, perfErr = e.PerfStore.Query(ctx, perfQueryFrom(decision.Filters))
	}()
	go func() {
		defer wg.Done()
		chunks, vecErr = e.Vector.Retrieve(ctx, query.Text, decision.Filters, fullVectorTopK)
	}()
	wg.Wait()

	if perfErr != nil && !domain.IsInputError(perfErr) {
		perfResult = domain.PerfResult{}
	}
	if vecErr != nil {
		chunks = nil
	}

	var prompt string
	if decision.Scores.Comparison > comparisonThreshold {
		prompt = comparisonPrompt(query.Text, perfResult.Rows, chunks)
	} else {
		prompt = enrichmentPrompt(query.Text, perfResult.Rows, chunks)
	}

	text, err := e.complete(ctx, prompt)
	if err != nil {
		return domain.SynthesizedAnswer{}, err
	}

	ragConf := ragConfidence(chunks)
	confidence := 0.6*perfResult.Confidence + 0.4*ragConf

	return domain.SynthesizedAnswer{
		Text:       text,
		Confidence: confidence,
		Sources:    []string{"performance_table", "vector_store"},
		Coherence:  domain.CoherenceUnknown,
	}, nil
}

func (e *Engine) answerClarify(ctx context.Context, query domain.Query) (domain.SynthesizedAnswer, error) {
	var catalog []string
	if e.PerfStore != nil {
		catalog, _ = e.PerfStore.Catalog(ctx)
	}
	return domain.SynthesizedAnswer{
		Text:       clarifyPrompt(query.Text, catalog),
		Confidence: 0,
		Coherence:  domain.CoherenceUnknown,
	}, nil
}

func (e *Engine) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := e.Provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, nil, "")
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func perfQueryFrom(f domain.RouteFilters) domain.PerfQuery {
	return domain.PerfQuery{
		Species: f.Species,
		Line:    f.Line,
		Sex:     f.Sex,
		AgeDays: f.AgeDays,
		Metrics: f.Metrics,
	}
}

// ragConfidence approximates a vector-search confidence from the best
// chunk's similarity score, since C6 doesn't compute one itself.
func ragConfidence(chunks []domain.VectorChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	best := chunks[0].Score
	for _, c := range chunks[1:] {
		if c.Score > best {
			best = c.Score
		}
	}
	if best < 0 {
		best = 0
	}
	if best > 1 {
		best = 1
	}
	return best
}
