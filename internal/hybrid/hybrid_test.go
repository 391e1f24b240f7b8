package hybrid

import (
	"context"
	"testing"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"
	"poultryqa/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePerfStore struct {
	result  domain.PerfResult
	err     error
	catalog []string
}

func (f fakePerfStore) Query(ctx context.Context, q domain.PerfQuery) (domain.PerfResult, error) {
	return f.result, f.err
}
func (f fakePerfStore) Catalog(ctx context.Context) ([]string, error) {
	return f.catalog, nil
}

type fakeVector struct {
	chunks []domain.VectorChunk
	err    error
}

func (f fakeVector) Retrieve(ctx context.Context, queryText string, filters domain.RouteFilters, topK int) ([]domain.VectorChunk, error) {
	return f.chunks, f.err
}

type echoProvider struct{ lastPrompt string }

func (e *echoProvider) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, error) {
	e.lastPrompt = msgs[0].Content
	return llm.Message{Role: "assistant", Content: "answer: " + msgs[0].Content[:10]}, nil
}
func (e *echoProvider) ChatStream(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string, h llm.StreamHandler) error {
	return nil
}

func TestAnswer_PerfStoreRouteUsesPerfConfidence(t *testing.T) {
	perf := fakePerfStore{result: domain.PerfResult{
		Rows:       []domain.PerfRow{{Line: "Ross 308", Sex: domain.SexMale, AgeDays: 35, Metric: "weight", Value: 2200, Unit: "g"}},
		Confidence: 0.9,
	}}
	provider := &echoProvider{}
	e := New(router.New(), perf, fakeVector{}, provider)

	ans, err := e.Answer(context.Background(), domain.Query{Text: "what is the target weight and fcr standard for broilers at 35 days, 2200 g?"}, domain.IntentMetricQuery, domain.ExtractedEntities{})
	require.NoError(t, err)
	assert.Equal(t, 0.9, ans.Confidence)
	assert.Contains(t, ans.Sources, "performance_table")
}

func TestAnswer_VectorRouteUsesBestChunkScore(t *testing.T) {
	perf := fakePerfStore{}
	vec := fakeVector{chunks: []domain.VectorChunk{
		{Content: "low relevance excerpt", Score: 0.4},
		{Content: "high relevance excerpt about disease symptoms", Score: 0.85},
	}}
	provider := &echoProvider{}
	e := New(router.New(), perf, vec, provider)

	ans, err := e.Answer(context.Background(), domain.Query{Text: "what is the recommended antibiotic treatment for disease in broiler flocks"}, domain.IntentDiagnosisTriage, domain.ExtractedEntities{})
	require.NoError(t, err)
	assert.Equal(t, 0.85, ans.Confidence)
	assert.Contains(t, ans.Sources, "vector_store")
}

func TestAnswer_HybridRouteFusesConfidence(t *testing.T) {
	perf := fakePerfStore{result: domain.PerfResult{
		Rows:       []domain.PerfRow{{Line: "Cobb 500", Sex: domain.SexFemale, AgeDays: 42, Metric: "fcr", Value: 1.6, Unit: ""}},
		Confidence: 1.0,
	}}
	vec := fakeVector{chunks: []domain.VectorChunk{{Content: "fcr discussion", Score: 0.5}}}
	provider := &echoProvider{}
	e := New(router.New(), perf, vec, provider)

	ans, err := e.Answer(context.Background(), domain.Query{Text: "compare Cobb 500 versus Ross 308 fcr at 42 days, which is better, 1.6 vs 1.7"}, domain.IntentMetricQuery, domain.ExtractedEntities{})
	require.NoError(t, err)
	assert.InDelta(t, 0.6*1.0+0.4*0.5, ans.Confidence, 1e-9)
	assert.ElementsMatch(t, []string{"performance_table", "vector_store"}, ans.Sources)
}

func TestAnswer_ClarifyRouteListsCatalog(t *testing.T) {
	perf := fakePerfStore{catalog: []string{"chicken/Ross 308", "chicken/Cobb 500"}}
	provider := &echoProvider{}
	e := New(router.New(), perf, fakeVector{}, provider)

	ans, err := e.answerClarify(context.Background(), domain.Query{Text: "how much should it weigh"})
	require.NoError(t, err)
	assert.Equal(t, float64(0), ans.Confidence)
	assert.Contains(t, ans.Text, "Ross 308")
}

func TestRagConfidence_EmptyChunksReturnsZero(t *testing.T) {
	assert.Equal(t, float64(0), ragConfidence(nil))
}

func TestRagConfidence_ClampsAboveOne(t *testing.T) {
	assert.Equal(t, float64(1), ragConfidence([]domain.VectorChunk{{Score: 1.4}}))
}
