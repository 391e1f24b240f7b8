package enhancer

import (
	"testing"

	"poultryqa/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestWordOverlapCoherence_ThreeOrMoreSharedTermsIsGood(t *testing.T) {
	enriched := "weight evaluation normal growth chicken"
	answer := "The weight evaluation shows normal growth for this age."
	assert.Equal(t, domain.CoherenceGood, wordOverlapCoherence(enriched, "original question", answer))
}

func TestWordOverlapCoherence_OneSharedTermIsPartial(t *testing.T) {
	enriched := "weight evaluation normal growth chicken"
	answer := "Here is some information about weight and feed programs."
	assert.Equal(t, domain.CoherencePartial, wordOverlapCoherence(enriched, "original question", answer))
}

func TestWordOverlapCoherence_NoSharedTermsIsPoor(t *testing.T) {
	enriched := "weight evaluation normal growth chicken"
	answer := "Ventilation rates depend on ambient humidity."
	assert.Equal(t, domain.CoherencePoor, wordOverlapCoherence(enriched, "original question", answer))
}

func TestWordOverlapCoherence_EmptyEnrichedQueryIsUnknown(t *testing.T) {
	assert.Equal(t, domain.CoherenceUnknown, wordOverlapCoherence("", "original question", "some answer"))
}

func TestEnhanceFallback_SexClarificationOnlyAddedWhenAnswerMentionsGrowth(t *testing.T) {
	e := New(nil)
	base := domain.SynthesizedAnswer{Text: "Target weight at 35 days is around 2.2kg.", Confidence: 0.7}
	in := Input{Language: "en", MissingEntities: []string{"sex"}}

	out := e.enhanceFallback(base, in)

	assert.Len(t, out.OptionalClarifications, 1)
	assert.Contains(t, out.OptionalClarifications[0], "males")
}

func TestEnhanceFallback_SexClarificationSkippedWithoutGrowthKeyword(t *testing.T) {
	e := New(nil)
	base := domain.SynthesizedAnswer{Text: "Recommended vaccination schedule for broilers.", Confidence: 0.7}
	in := Input{Language: "en", MissingEntities: []string{"sex"}}

	out := e.enhanceFallback(base, in)

	assert.Empty(t, out.OptionalClarifications)
}
