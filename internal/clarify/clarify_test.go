package clarify

import (
	"context"
	"testing"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_GenericBreedAlwaysClarifiesWithoutLLM(t *testing.T) {
	e := New(nil)
	v := e.Evaluate(context.Background(), domain.Query{Text: "Mes poulets ne grossissent pas", Language: "fr"},
		domain.ExtractedEntities{BreedType: domain.BreedGeneric}, domain.IntentGeneralPoultry)
	require.False(t, v.Clear)
	require.NotNil(t, v.Request)
	assert.Len(t, v.Request.Questions, 3)
}

func TestEvaluate_GenericBreedSkipsQuestionsForKnownFields(t *testing.T) {
	e := New(nil)
	age := 21
	v := e.Evaluate(context.Background(), domain.Query{Text: "Mes poulets ne grossissent pas", Language: "fr"},
		domain.ExtractedEntities{BreedType: domain.BreedGeneric, AgeDays: &age, HousingType: "cage"}, domain.IntentGeneralPoultry)
	require.False(t, v.Clear)
	require.NotNil(t, v.Request)
	assert.Len(t, v.Request.Questions, 1)
}

func TestEvaluate_SpecificBreedWithAgeIsClear(t *testing.T) {
	e := New(nil)
	age := 35
	v := e.Evaluate(context.Background(), domain.Query{Text: "Ross 308 weight", Language: "en"},
		domain.ExtractedEntities{BreedType: domain.BreedSpecific, AgeDays: &age}, domain.IntentMetricQuery)
	assert.True(t, v.Clear)
}

func TestEvaluate_SpecificBreedWithAgeButDiagnosisFallsThrough(t *testing.T) {
	e := New(nil)
	age := 35
	v := e.Evaluate(context.Background(), domain.Query{Text: "Why is my Ross 308 flock lethargic?", Language: "en"},
		domain.ExtractedEntities{BreedType: domain.BreedSpecific, AgeDays: &age}, domain.IntentDiagnosisTriage)
	assert.False(t, v.Clear)
}

func TestEvaluate_MetricQueryMissingBreedAndAgeClarifies(t *testing.T) {
	e := New(nil)
	v := e.Evaluate(context.Background(), domain.Query{Text: "What weight should my birds be?", Language: "en"},
		domain.ExtractedEntities{}, domain.IntentMetricQuery)
	require.False(t, v.Clear)
	require.NotNil(t, v.Request)
	assert.Len(t, v.Request.Questions, 2)
}

type clearProvider struct{}

func (clearProvider) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, error) {
	return llm.Message{Content: "CLEAR"}, nil
}
func (clearProvider) ChatStream(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string, h llm.StreamHandler) error {
	return nil
}

func TestEvaluate_LLMFallbackReturnsClear(t *testing.T) {
	e := New(clearProvider{})
	v := e.Evaluate(context.Background(), domain.Query{Text: "Tell me about egg production", Language: "en"},
		domain.ExtractedEntities{BreedType: domain.BreedSpecific}, domain.IntentGeneralPoultry)
	assert.True(t, v.Clear)
}
