package enhancer

import (
	"context"
	"errors"
	"testing"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f fakeProvider) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, error) {
	if f.err != nil {
		return llm.Message{}, f.err
	}
	return llm.Message{Role: "assistant", Content: f.reply}, nil
}
func (f fakeProvider) ChatStream(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string, h llm.StreamHandler) error {
	return nil
}

func TestEnhance_ProviderSuccessAppliesAnswerAndScalesConfidence(t *testing.T) {
	reply := `{
		"enhanced_answer": "At 35 days, Ross 308 broilers target 2.2kg with an FCR around 1.6.",
		"optional_clarifications": ["Is this a mixed flock?", "What feed program are you running?", "Any health issues?", "extra one dropped"],
		"warnings": ["Sex affects target weight by up to 150g.", "extra warning dropped"],
		"confidence_impact": "medium",
		"coherence_check": "good",
		"coherence_notes": "matches weight and age terms"
	}`
	e := New(fakeProvider{reply: reply})
	in := Input{Language: "en", OriginalQuery: "what is the target weight for Ross 308 at 35 days"}
	base := domain.SynthesizedAnswer{Text: "raw answer", Confidence: 0.8}

	out := e.Enhance(context.Background(), base, in)

	assert.Equal(t, "At 35 days, Ross 308 broilers target 2.2kg with an FCR around 1.6.", out.Text)
	assert.Equal(t, domain.CoherenceGood, out.Coherence)
	assert.InDelta(t, 0.8*0.85, out.Confidence, 1e-9)
	assert.Len(t, out.OptionalClarifications, 3)
	assert.Len(t, out.Warnings, 2)
}

func TestEnhance_ProviderFailureFallsBackToRuleBased(t *testing.T) {
	e := New(fakeProvider{err: errors.New("provider unavailable")})
	in := Input{
		Language:        "en",
		MissingEntities: []string{"breed", "age_days"},
	}
	base := domain.SynthesizedAnswer{Text: "generic broiler advice", Confidence: 0.8}

	out := e.Enhance(context.Background(), base, in)

	assert.Len(t, out.Warnings, 2)
	assert.Len(t, out.OptionalClarifications, 2)
	assert.InDelta(t, 0.8*0.65, out.Confidence, 1e-9)
	assert.Equal(t, domain.CoherenceUnknown, out.Coherence)
}

func TestEnhance_UnparsableReplyFallsBackToRuleBased(t *testing.T) {
	e := New(fakeProvider{reply: "Sure, here's some advice without any JSON at all."})
	in := Input{Language: "en", MissingEntities: []string{"breed"}}
	base := domain.SynthesizedAnswer{Text: "generic advice", Confidence: 0.6}

	out := e.Enhance(context.Background(), base, in)

	assert.Len(t, out.Warnings, 1)
	assert.InDelta(t, 0.6*0.85, out.Confidence, 1e-9)
}

func TestEnhance_NilProviderGoesStraightToFallback(t *testing.T) {
	e := New(nil)
	in := Input{Language: "en"}
	base := domain.SynthesizedAnswer{Text: "answer", Confidence: 0.5}

	out := e.Enhance(context.Background(), base, in)

	assert.Equal(t, domain.CoherenceUnknown, out.Coherence)
	assert.InDelta(t, 0.5, out.Confidence, 1e-9)
}
