package router

import (
	"testing"

	"poultryqa/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRoute_QuantitativePerformanceGoesToPerfStore(t *testing.T) {
	r := New()
	d := r.Route("What is the FCR target and weight at 35 days for broilers?", domain.ExtractedEntities{})
	assert.Equal(t, domain.RoutePerfStore, d.Route)
}

func TestRoute_ComparisonWithNumbersGoesHybrid(t *testing.T) {
	r := New()
	d := r.Route("Compare Ross 308 versus Cobb 500 weight at 42 days, what is the difference in grams?", domain.ExtractedEntities{})
	assert.Equal(t, domain.RouteHybrid, d.Route)
}

func TestRoute_ContextualHealthQuestionGoesVector(t *testing.T) {
	r := New()
	d := r.Route("What vaccination schedule should I follow to prevent Newcastle disease?", domain.ExtractedEntities{})
	assert.Equal(t, domain.RouteVector, d.Route)
}

func TestRoute_AmbiguousQuestionGoesClarify(t *testing.T) {
	r := New()
	d := r.Route("Hello, how are you today?", domain.ExtractedEntities{})
	assert.Equal(t, domain.RouteClarify, d.Route)
}

func TestExtractFilters_DerivesAgeFromWeeks(t *testing.T) {
	r := New()
	d := r.Route("Ross 308 male weight at 5 weeks", domain.ExtractedEntities{})
	assert.Equal(t, "ross", d.Filters.Line)
	assert.Equal(t, domain.SexMale, d.Filters.Sex)
	if assert.NotNil(t, d.Filters.AgeDays) {
		assert.Equal(t, 35, *d.Filters.AgeDays)
	}
}

func TestExtractFilters_EntitiesOverrideKeywordMatch(t *testing.T) {
	r := New()
	age := 21
	d := r.Route("weight at some age", domain.ExtractedEntities{Breed: "cobb", Sex: domain.SexFemale, AgeDays: &age})
	assert.Equal(t, "cobb", d.Filters.Line)
	assert.Equal(t, domain.SexFemale, d.Filters.Sex)
	if assert.NotNil(t, d.Filters.AgeDays) {
		assert.Equal(t, 21, *d.Filters.AgeDays)
	}
}
