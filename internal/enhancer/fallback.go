package enhancer

import (
	"strings"

	"poultryqa/internal/domain"
	"poultryqa/internal/localization"
)

// growthKeywords gates the "sex" clarification: it's only worth asking when
// the raw answer is actually about weight/growth, where sex materially
// changes the target values.
var growthKeywords = []string{"weight", "growth", "poids", "croissance"}

// enhanceFallback is the rule-based path used whenever the completion
// provider is unavailable, errors, or returns something unparsable.
func (e *Engine) enhanceFallback(answer domain.SynthesizedAnswer, in Input) domain.SynthesizedAnswer {
	out := answer

	var warnings, clarifications []string
	for _, field := range in.MissingEntities {
		if w := localization.Warning(in.Language, field); w != "" {
			warnings = append(warnings, w)
			clarifications = append(clarifications, localization.ClarificationQuestion(in.Language, field))
		}
	}
	if containsField(in.MissingEntities, "sex") && containsAnyKeyword(answer.Text, growthKeywords) {
		clarifications = append(clarifications, localization.ClarificationQuestion(in.Language, "sex"))
	}

	out.Warnings = clampStrings(warnings, maxWarnings)
	out.OptionalClarifications = clampStrings(dedupeStrings(clarifications), maxClarifications)
	out.Coherence = wordOverlapCoherence(in.EnrichedQuery, in.OriginalQuery, answer.Text)
	out.Confidence = applyConfidenceImpact(answer.Confidence, confidenceImpactFromMissingCount(len(in.MissingEntities)))

	return enforceCoherenceInvariant(out, in.Language)
}

func confidenceImpactFromMissingCount(n int) string {
	switch {
	case n >= 2:
		return confidenceImpactHigh
	case n == 1:
		return confidenceImpactMedium
	default:
		return confidenceImpactLow
	}
}

// wordOverlapCoherence approximates topical fit by counting shared
// non-trivial (longer than three characters) words between the enriched
// question and the answer. Only attempted when both the enriched and
// original question are present, matching the source this is grounded on.
func wordOverlapCoherence(enrichedQuery, originalQuery, answerText string) domain.Coherence {
	if enrichedQuery == "" || originalQuery == "" {
		return domain.CoherenceUnknown
	}

	enrichedWords := significantWords(enrichedQuery)
	answerWords := significantWords(answerText)

	shared := 0
	for w := range enrichedWords {
		if answerWords[w] {
			shared++
		}
	}

	switch {
	case shared >= 3:
		return domain.CoherenceGood
	case shared >= 1:
		return domain.CoherencePartial
	default:
		return domain.CoherencePoor
	}
}

func significantWords(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) > 3 {
			out[w] = true
		}
	}
	return out
}

func containsAnyKeyword(s string, keywords []string) bool {
	low := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}

func containsField(fields []string, target string) bool {
	for _, f := range fields {
		if f == target {
			return true
		}
	}
	return false
}

func dedupeStrings(in []string) []string {
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
