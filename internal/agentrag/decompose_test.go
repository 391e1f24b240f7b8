package agentrag

import (
	"testing"

	"poultryqa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose_MultiMetricOneSubQueryPerMetric(t *testing.T) {
	subs := Decompose("what is the weight and fcr for Ross 308 at 35 days", domain.ComplexityMultiMetric, domain.ExtractedEntities{Breed: "Ross 308"})
	require.Len(t, subs, 2)
	for _, s := range subs {
		assert.Equal(t, domain.IntentMetricQuery, s.Intent)
		assert.Contains(t, s.Query, "Ross 308")
	}
}

func TestDecompose_ComparativeOneSubQueryPerBreed(t *testing.T) {
	subs := Decompose("Ross 308 vs Cobb 500 at 42 days", domain.ComplexityComparative, domain.ExtractedEntities{})
	require.Len(t, subs, 2)
	assert.Contains(t, subs[0].Query, "ross")
	assert.Contains(t, subs[1].Query, "cobb")
}

func TestDecompose_ConditionalSplitsConditionAndAction(t *testing.T) {
	subs := Decompose("if temperature drops below 18 then increase heating", domain.ComplexityConditional, domain.ExtractedEntities{})
	require.Len(t, subs, 2)
	assert.Equal(t, domain.IntentMetricQuery, subs[0].Intent)
	assert.Equal(t, domain.IntentProtocolQuery, subs[1].Intent)
}

func TestDecompose_DiagnosticThreeStagePipeline(t *testing.T) {
	subs := Decompose("high mortality in my broiler flock", domain.ComplexityDiagnostic, domain.ExtractedEntities{})
	require.Len(t, subs, 3)
	assert.Equal(t, domain.IntentDiagnosisTriage, subs[0].Intent)
	assert.Equal(t, domain.IntentDiagnosisTriage, subs[1].Intent)
	assert.Equal(t, domain.IntentProtocolQuery, subs[2].Intent)
}

func TestDecompose_SimpleSingleSubQuery(t *testing.T) {
	subs := Decompose("what is the target weight", domain.ComplexitySimple, domain.ExtractedEntities{})
	require.Len(t, subs, 1)
	assert.Equal(t, "what is the target weight", subs[0].Query)
}
