package engine

import (
	"context"
	"testing"

	"poultryqa/internal/agentrag"
	"poultryqa/internal/clarify"
	"poultryqa/internal/domain"
	"poultryqa/internal/domaingate"
	"poultryqa/internal/entities"
	"poultryqa/internal/enhancer"
	"poultryqa/internal/hybrid"
	"poultryqa/internal/llm"
	"poultryqa/internal/router"
	"poultryqa/internal/stepdag"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePerfStore struct {
	result domain.PerfResult
	err    error
}

func (f fakePerfStore) Query(ctx context.Context, q domain.PerfQuery) (domain.PerfResult, error) {
	return f.result, f.err
}
func (f fakePerfStore) Catalog(ctx context.Context) ([]string, error) { return nil, nil }

type fakeVector struct{}

func (fakeVector) Retrieve(ctx context.Context, queryText string, filters domain.RouteFilters, topK int) ([]domain.VectorChunk, error) {
	return nil, nil
}

// echoProvider answers every chat call with a fixed string, long enough
// that the perf-store route's synthesis prompt always yields non-empty
// text.
type echoProvider struct{ reply string }

func (e echoProvider) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, error) {
	return llm.Message{Role: "assistant", Content: e.reply}, nil
}
func (e echoProvider) ChatStream(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string, h llm.StreamHandler) error {
	return nil
}

func newTestEngine(perf fakePerfStore) *Engine {
	provider := echoProvider{reply: "Target body weight for Ross 308 males at 35 days is 2200 g."}
	hybridEngine := hybrid.New(router.New(), perf, fakeVector{}, provider)

	return &Engine{
		Extractor:       entities.New(provider),
		Clarifier:       clarify.New(provider),
		Gate:            domaingate.New(domaingate.DefaultConfig(), nil, zerolog.Nop()),
		Hybrid:          hybridEngine,
		AgentRAG:        agentrag.New(hybridEngine, provider),
		Orchestrator:    stepdag.New(nil),
		Enhancer:        enhancer.New(nil),
		DefaultLanguage: "en",
	}
}

func TestAsk_DeterministicPerfLookupReturnsAnswer(t *testing.T) {
	perf := fakePerfStore{result: domain.PerfResult{
		Rows:       []domain.PerfRow{{Line: "ross_308", Sex: domain.SexMale, AgeDays: 35, Metric: "weight", Value: 2200, Unit: "g"}},
		Confidence: 0.9,
	}}
	e := newTestEngine(perf)

	result, err := e.Ask(context.Background(), "What is the target body weight for Ross 308 males at 35 days?", "en", "", "")
	require.NoError(t, err)
	require.NotNil(t, result.Answer)
	assert.Nil(t, result.Clarification)
	assert.NotEmpty(t, result.Answer.Text)
}

func TestAsk_DomainRejectionReturnsDomainRejectedError(t *testing.T) {
	e := newTestEngine(fakePerfStore{})

	result, err := e.Ask(context.Background(), "Quel est le prix du bitcoin aujourd'hui ?", "fr", "", "")
	require.Error(t, err)
	de, ok := err.(*domain.Err)
	require.True(t, ok)
	assert.Equal(t, "DomainRejected", de.Kind)
	assert.Equal(t, HTTPStatusFor(err), 422)
	assert.Nil(t, result.Answer)
}

func TestAsk_GenericBreedTriggersClarificationWithoutPendingStore(t *testing.T) {
	e := newTestEngine(fakePerfStore{})

	result, err := e.Ask(context.Background(), "Mes poulets ne grossissent pas", "fr", "", "")
	require.Error(t, err)
	de, ok := err.(*domain.Err)
	require.True(t, ok)
	assert.Equal(t, "ClarificationRequired", de.Kind)
	require.NotNil(t, result.Clarification)
	assert.NotEmpty(t, result.Clarification.Questions)
}

func TestAnswerClarification_WithoutPendingStoreReturnsClarificationRequired(t *testing.T) {
	e := newTestEngine(fakePerfStore{})

	_, err := e.AnswerClarification(context.Background(), "conv-1", map[int]string{0: "Ross 308"})
	require.Error(t, err)
	de, ok := err.(*domain.Err)
	require.True(t, ok)
	assert.Equal(t, "ClarificationRequired", de.Kind)
}

func TestPerfLookup_NotConfiguredReturnsPerfStoreBackendError(t *testing.T) {
	e := newTestEngine(fakePerfStore{})

	_, err := e.PerfLookup(context.Background(), domain.PerfQuery{})
	require.Error(t, err)
	de, ok := err.(*domain.Err)
	require.True(t, ok)
	assert.Equal(t, "PerfStoreBackend", de.Kind)
}

func TestHealth_ReportsDegradedForUnconfiguredPerfStoreAndPending(t *testing.T) {
	e := newTestEngine(fakePerfStore{})

	health := e.Health(context.Background())
	assert.Equal(t, StatusDegraded, health.Components["perf_store"])
	assert.Equal(t, StatusDegraded, health.Components["pending_clarification"])
	assert.Equal(t, StatusOK, health.Components["domain_gate"])
}

func TestMissingEntities_ReportsEveryUnpopulatedCriticalField(t *testing.T) {
	ents := domain.ExtractedEntities{Confidences: map[string]domain.Confidence{"breed": 1.0}}
	assert.ElementsMatch(t, []string{"age_days", "sex"}, missingEntities(ents))
}
