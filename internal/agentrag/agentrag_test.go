package agentrag

import (
	"context"
	"errors"
	"testing"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHybrid struct {
	byQuery    map[string]domain.SynthesizedAnswer
	failQuery  func(text string) bool
	calls      int
}

func (f *fakeHybrid) Answer(ctx context.Context, query domain.Query, intent domain.Intent, entities domain.ExtractedEntities) (domain.SynthesizedAnswer, error) {
	f.calls++
	if f.failQuery != nil && f.failQuery(query.Text) {
		return domain.SynthesizedAnswer{}, errors.New("store unavailable")
	}
	if ans, ok := f.byQuery[query.Text]; ok {
		return ans, nil
	}
	return domain.SynthesizedAnswer{Text: "answer for " + query.Text, Confidence: 0.6, Sources: []string{"vector_store"}}, nil
}

type echoProvider struct{}

func (e echoProvider) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, error) {
	return llm.Message{Role: "assistant", Content: "synthesized: " + msgs[0].Content[:9]}, nil
}
func (e echoProvider) ChatStream(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string, h llm.StreamHandler) error {
	return nil
}

type failingProvider struct{}

func (f failingProvider) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, error) {
	return llm.Message{}, errors.New("provider unavailable")
}
func (f failingProvider) ChatStream(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string, h llm.StreamHandler) error {
	return nil
}

func TestAnswer_SimpleDelegatesDirectlyToHybridOnce(t *testing.T) {
	hybrid := &fakeHybrid{}
	e := New(hybrid, echoProvider{})

	_, err := e.Answer(context.Background(), domain.Query{Text: "what is the target weight for Ross 308 at 35 days"}, domain.ExtractedEntities{})
	require.NoError(t, err)
	assert.Equal(t, 1, hybrid.calls)
}

func TestAnswer_MultiMetricFansOutAndFusesConfidence(t *testing.T) {
	hybrid := &fakeHybrid{}
	e := New(hybrid, echoProvider{})

	ans, err := e.Answer(context.Background(), domain.Query{Text: "what is the weight and fcr for Ross 308 at 35 days"}, domain.ExtractedEntities{Breed: "Ross 308"})
	require.NoError(t, err)
	assert.Equal(t, 2, hybrid.calls)
	assert.InDelta(t, 0.6+synthesisConfidenceBonus, ans.Confidence, 1e-9)
	assert.Contains(t, ans.Text, "synthesized:")
}

func TestAnswer_ZeroValidSubAnswersFallsBackToHybridSingleShot(t *testing.T) {
	query := domain.Query{Text: "what is the weight and fcr for Ross 308 at 35 days"}
	hybrid := &fakeHybrid{failQuery: func(text string) bool { return text != query.Text }}
	e := New(hybrid, echoProvider{})

	ans, err := e.Answer(context.Background(), query, domain.ExtractedEntities{Breed: "Ross 308"})
	require.NoError(t, err)
	// 2 sub-query attempts (both fail, since they aren't the original query text) + 1 fallback single-shot attempt that succeeds.
	assert.Equal(t, 3, hybrid.calls)
	assert.Contains(t, ans.Text, "answer for")
}

func TestAnswer_SynthesisProviderFailureFallsBackToConcatenation(t *testing.T) {
	query := domain.Query{Text: "what is the weight and fcr for Ross 308 at 35 days"}
	// Sub-queries succeed; the single-shot call over the original query fails, so concatenation is the last resort.
	hybrid := &fakeHybrid{failQuery: func(text string) bool { return text == query.Text }}
	e := New(hybrid, failingProvider{})

	ans, err := e.Answer(context.Background(), query, domain.ExtractedEntities{Breed: "Ross 308"})
	require.NoError(t, err)
	assert.Contains(t, ans.Text, "Point 1:")
}
