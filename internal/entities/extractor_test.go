package entities

import (
	"context"
	"testing"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_SpecificBreedAndAge(t *testing.T) {
	x := New(nil)
	intent, e := x.Extract(context.Background(), domain.Query{
		Text: "What is the target weight for Ross 308 males at 35 days?", Language: "en",
	})
	assert.Equal(t, "ross_308", e.Breed)
	assert.Equal(t, domain.BreedSpecific, e.BreedType)
	assert.Equal(t, domain.SexMale, e.Sex)
	require.NotNil(t, e.AgeDays)
	assert.Equal(t, 35, *e.AgeDays)
	assert.Equal(t, domain.IntentMetricQuery, intent)
}

func TestExtract_GenericBreedTerm(t *testing.T) {
	x := New(nil)
	_, e := x.Extract(context.Background(), domain.Query{Text: "Mes poulets ne grossissent pas", Language: "fr"})
	assert.Equal(t, domain.BreedGeneric, e.BreedType)
}

func TestExtract_AgeInWeeksConvertsToDays(t *testing.T) {
	x := New(nil)
	_, e := x.Extract(context.Background(), domain.Query{Text: "Cobb 500 weight at 5 weeks", Language: "en"})
	require.NotNil(t, e.AgeDays)
	assert.Equal(t, 35, *e.AgeDays)
}

func TestExtract_CurrentQueryOverridesHistory(t *testing.T) {
	x := New(nil)
	history := []domain.Turn{{Question: "Ross 308 males at 21 days", Answer: "..."}}
	_, e := x.Extract(context.Background(), domain.Query{
		Text:     "What about Cobb 500 at 35 days?",
		Language: "en",
		History:  history,
	})
	assert.Equal(t, "cobb_500", e.Breed)
	require.NotNil(t, e.AgeDays)
	assert.Equal(t, 35, *e.AgeDays)
}

func TestExtract_HistoryFieldInheritedWhenCurrentOmitsIt(t *testing.T) {
	x := New(nil)
	history := []domain.Turn{{Question: "Ross 308 males at 21 days", Answer: "..."}}
	_, e := x.Extract(context.Background(), domain.Query{
		Text:     "What about FCR at 35 days?",
		Language: "en",
		History:  history,
	})
	assert.Equal(t, "ross_308", e.Breed)
	assert.Equal(t, domain.SexMale, e.Sex)
	require.NotNil(t, e.AgeDays)
	assert.Equal(t, 35, *e.AgeDays)
}

type stubProvider struct {
	reply llm.Message
	err   error
}

func (s stubProvider) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, error) {
	return s.reply, s.err
}

func (s stubProvider) ChatStream(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string, h llm.StreamHandler) error {
	return nil
}

func TestExtract_Tier2FallbackFillsMissingBreed(t *testing.T) {
	provider := stubProvider{reply: llm.Message{Content: `{"breed": "Lohmann Brown", "breed_type": "specific", "age_days": 140}`}}
	x := New(provider)
	intent, e := x.Extract(context.Background(), domain.Query{Text: "How many eggs should I expect at peak lay?", Language: "en"})
	assert.Equal(t, "lohmann_brown", e.Breed)
	require.NotNil(t, e.AgeDays)
	assert.Equal(t, 140, *e.AgeDays)
	_ = intent
}
