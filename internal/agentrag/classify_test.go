package agentrag

import (
	"testing"

	"poultryqa/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassify_MultiMetricByKeywordPattern(t *testing.T) {
	c := Classify("what is the weight and fcr target for broilers at 35 days", domain.ExtractedEntities{})
	assert.Equal(t, domain.ComplexityMultiMetric, c)
}

func TestClassify_MultiMetricByEntityCount(t *testing.T) {
	entities := domain.ExtractedEntities{Confidences: map[string]domain.Confidence{"breed": 1, "sex": 1, "age_days": 1, "flock_size": 1}}
	c := Classify("tell me about my birds", entities)
	assert.Equal(t, domain.ComplexityMultiMetric, c)
}

func TestClassify_ComparativeByBreedVersusBreed(t *testing.T) {
	c := Classify("Ross 308 vs Cobb 500 at 42 days", domain.ExtractedEntities{})
	assert.Equal(t, domain.ComplexityComparative, c)
}

func TestClassify_ConditionalByIfThen(t *testing.T) {
	c := Classify("if the temperature drops below 18C then what should I do", domain.ExtractedEntities{})
	assert.Equal(t, domain.ComplexityConditional, c)
}

func TestClassify_DiagnosticBySymptomPlusWhy(t *testing.T) {
	c := Classify("why is mortality so high in my flock this week", domain.ExtractedEntities{})
	assert.Equal(t, domain.ComplexityDiagnostic, c)
}

func TestClassify_SimpleWhenNoPatternMatches(t *testing.T) {
	c := Classify("what is the target weight for Ross 308 at 35 days", domain.ExtractedEntities{})
	assert.Equal(t, domain.ComplexitySimple, c)
}
