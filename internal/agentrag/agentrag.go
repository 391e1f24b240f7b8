package agentrag

import (
	"context"

	"golang.org/x/sync/errgroup"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"
)

const (
	minSubAnswerConfidence = 0.3
	synthesisConfidenceBonus = 0.1
	maxSynthesisConfidence   = 0.95
)

// Answerer is C9's Answer shape — the single-shot hybrid engine every
// sub-query (and the SIMPLE fallback path) is ultimately answered through.
type Answerer interface {
	Answer(ctx context.Context, query domain.Query, intent domain.Intent, entities domain.ExtractedEntities) (domain.SynthesizedAnswer, error)
}

// Engine classifies, decomposes, fans out, and synthesizes — C11.
type Engine struct {
	Hybrid   Answerer
	Provider llm.Provider
}

// New builds an Engine from its collaborators.
func New(hybrid Answerer, provider llm.Provider) *Engine {
	return &Engine{Hybrid: hybrid, Provider: provider}
}

// Answer is C11's entry point. A SIMPLE query is delegated straight to C9.
// Anything else is decomposed into independent sub-queries, run
// concurrently through C9, and synthesized with a complexity-specific
// template. Any failure along the decomposed path — zero valid sub-answers,
// or the synthesis call itself failing — falls back to a single C9 call
// over the original query. When the synthesis call fails and that single
// C9 call fails too, the best sub-answers are concatenated instead.
func (e *Engine) Answer(ctx context.Context, query domain.Query, entities domain.ExtractedEntities) (domain.SynthesizedAnswer, error) {
	complexity := Classify(query.Text, entities)

	if complexity == domain.ComplexitySimple {
		return e.Hybrid.Answer(ctx, query, domain.IntentGeneralPoultry, entities)
	}

	subqueries := Decompose(query.Text, complexity, entities)
	answers := e.runConcurrently(ctx, subqueries, query.Language, entities)

	valid := make([]domain.SynthesizedAnswer, 0, len(answers))
	for _, a := range answers {
		if a != nil && a.Confidence > minSubAnswerConfidence {
			valid = append(valid, *a)
		}
	}
	if len(valid) == 0 {
		return e.Hybrid.Answer(ctx, query, domain.IntentGeneralPoultry, entities)
	}

	text, err := e.complete(ctx, synthesisPrompt(query.Text, complexity, valid))
	if err != nil {
		if single, herr := e.Hybrid.Answer(ctx, query, domain.IntentGeneralPoultry, entities); herr == nil {
			return single, nil
		}
		text = fallbackConcatenation(valid)
	}

	confidence := averageConfidence(valid)
	if len(valid) > 1 {
		confidence += synthesisConfidenceBonus
	}
	if confidence > maxSynthesisConfidence {
		confidence = maxSynthesisConfidence
	}

	sources := make([]string, 0)
	for _, a := range valid {
		sources = append(sources, a.Sources...)
	}

	return domain.SynthesizedAnswer{
		Text:       text,
		Confidence: confidence,
		Sources:    dedupStrings(sources),
		Coherence:  domain.CoherenceUnknown,
	}, nil
}

func (e *Engine) runConcurrently(ctx context.Context, subqueries []domain.SubQuery, language string, entities domain.ExtractedEntities) []*domain.SynthesizedAnswer {
	results := make([]*domain.SynthesizedAnswer, len(subqueries))

	var g errgroup.Group
	for i, sq := range subqueries {
		i, sq := i, sq
		g.Go(func() error {
			ans, err := e.Hybrid.Answer(ctx, domain.Query{Text: sq.Query, Language: language}, sq.Intent, entities)
			if err != nil {
				return nil
			}
			results[i] = &ans
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Engine) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := e.Provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, nil, "")
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func averageConfidence(answers []domain.SynthesizedAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range answers {
		sum += a.Confidence
	}
	return sum / float64(len(answers))
}

func dedupStrings(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
