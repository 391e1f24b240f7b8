package externalsources

import (
	"testing"

	"poultryqa/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRecencyScore_Buckets(t *testing.T) {
	assert.Equal(t, 1.0, recencyScore(2026, 2026))
	assert.Equal(t, 0.8, recencyScore(2022, 2026))
	assert.Equal(t, 0.5, recencyScore(2017, 2026))
	assert.Equal(t, 0.2, recencyScore(2010, 2026))
}

func TestCitationScore_NormalizesAgainstMaxAndCaps(t *testing.T) {
	// 20 citations over 2 years = 10/yr; max is 10/yr -> score 1.0
	assert.InDelta(t, 1.0, citationScore(20, 2024, 2026, 10), 1e-9)
	// 5 citations over 2 years = 2.5/yr; max 10/yr -> 0.25
	assert.InDelta(t, 0.25, citationScore(5, 2024, 2026, 10), 1e-9)
	assert.Equal(t, 0.0, citationScore(5, 2024, 2026, 0))
}

func TestRank_ComputesCompositeAndSortsDescending(t *testing.T) {
	docs := []domain.ExternalDocument{
		{Title: "low", Year: 2010, CitationCount: 1, RelevanceScore: 0.2, Source: "fao"},
		{Title: "high", Year: 2026, CitationCount: 50, RelevanceScore: 0.9, Source: "semantic_scholar"},
	}
	out := rank(docs, sourceWeights, 2026)
	assert.Equal(t, "high", out[0].Title)
	assert.Greater(t, out[0].CompositeScore, out[1].CompositeScore)
}
