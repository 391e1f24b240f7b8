package externalsources

import (
	"testing"

	"poultryqa/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDedupe_IdentityMatchDropsSecondWithSameDOI(t *testing.T) {
	docs := []domain.ExternalDocument{
		{Title: "Broiler growth", Year: 2020, DOI: "10.1/abc", Source: "semantic_scholar"},
		{Title: "Broiler growth (reprint)", Year: 2021, DOI: "10.1/abc", Source: "europe_pmc"},
	}
	out := dedupe(docs)
	assert.Len(t, out, 1)
	assert.Equal(t, "semantic_scholar", out[0].Source)
}

func TestDedupe_TitleYearMatchDropsDuplicateWithoutIDs(t *testing.T) {
	docs := []domain.ExternalDocument{
		{Title: "Layer Hen Nutrition Review", Year: 2019},
		{Title: "  layer hen nutrition review  ", Year: 2019},
	}
	out := dedupe(docs)
	assert.Len(t, out, 1)
}

func TestDedupe_DistinctDocumentsAllSurvive(t *testing.T) {
	docs := []domain.ExternalDocument{
		{Title: "A", Year: 2019, DOI: "10.1/a"},
		{Title: "B", Year: 2020, PMID: "123"},
		{Title: "C", Year: 2021},
	}
	out := dedupe(docs)
	assert.Len(t, out, 3)
}
