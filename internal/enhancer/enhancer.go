// Package enhancer implements C12: it takes a synthesized answer and the
// context around it (known/missing entities, the original and enriched
// questions) and produces a final, user-facing version — adapted to what's
// actually known, flagged where critical information is missing, and
// checked for topical fit against the enriched question. A completion
// provider does this when available; a rule-based path takes over whenever
// the provider call fails or its reply can't be parsed.
package enhancer

import (
	"context"
	"encoding/json"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"
)

const (
	maxClarifications = 3
	maxWarnings       = 2
)

// Input is everything C12 needs beyond the answer it's enhancing.
type Input struct {
	Entities        domain.ExtractedEntities
	MissingEntities []string
	Context         string
	OriginalQuery   string
	EnrichedQuery   string
	Language        string
}

// Engine runs the enhancement step over a completion provider, with a
// rule-based fallback.
type Engine struct {
	Provider llm.Provider
}

// New builds an Engine. Provider may be nil, in which case every call goes
// straight to the rule-based fallback.
func New(provider llm.Provider) *Engine {
	return &Engine{Provider: provider}
}

// Enhance never returns an error — a provider failure or an unparsable
// reply falls back to the rule-based path instead of propagating upward.
func (e *Engine) Enhance(ctx context.Context, answer domain.SynthesizedAnswer, in Input) domain.SynthesizedAnswer {
	if e.Provider != nil {
		if enhanced, ok := e.enhanceWithProvider(ctx, answer, in); ok {
			return enhanced
		}
	}
	return e.enhanceFallback(answer, in)
}

type enhancementResponse struct {
	EnhancedAnswer         string   `json:"enhanced_answer"`
	OptionalClarifications []string `json:"optional_clarifications"`
	Warnings               []string `json:"warnings"`
	ConfidenceImpact       string   `json:"confidence_impact"`
	CoherenceCheck         string   `json:"coherence_check"`
	CoherenceNotes         string   `json:"coherence_notes"`
}

func (e *Engine) enhanceWithProvider(ctx context.Context, answer domain.SynthesizedAnswer, in Input) (domain.SynthesizedAnswer, bool) {
	msgs := []llm.Message{
		{Role: "system", Content: systemPrompt(in.Language)},
		{Role: "user", Content: enhancementPrompt(answer.Text, in)},
	}
	reply, err := e.Provider.Chat(ctx, msgs, nil, "")
	if err != nil {
		return domain.SynthesizedAnswer{}, false
	}

	var parsed enhancementResponse
	if err := json.Unmarshal([]byte(extractJSON(reply.Content)), &parsed); err != nil {
		return domain.SynthesizedAnswer{}, false
	}

	out := answer
	if parsed.EnhancedAnswer != "" {
		out.Text = parsed.EnhancedAnswer
	}
	out.OptionalClarifications = clampStrings(parsed.OptionalClarifications, maxClarifications)
	out.Warnings = clampStrings(parsed.Warnings, maxWarnings)
	out.Coherence = validCoherence(parsed.CoherenceCheck)
	out.Confidence = applyConfidenceImpact(answer.Confidence, validConfidenceImpact(parsed.ConfidenceImpact))

	logCoherenceNotes(parsed.CoherenceNotes, out.Coherence)

	return enforceCoherenceInvariant(out, in.Language), true
}
