package domaingate

import (
	"context"
	"testing"

	"poultryqa/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	records []RejectionRecord
}

func (s *recordingSink) RecordRejection(_ context.Context, rec RejectionRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func newTestGate(sink RejectionAuditSink) *Gate {
	return New(DefaultConfig(), sink, zerolog.Nop())
}

func TestEvaluate_EmptyQueryRejectedWithZeroConfidence(t *testing.T) {
	g := newTestGate(nil)
	res := g.Evaluate(context.Background(), domain.Query{Text: "   ", Language: "en"})
	assert.False(t, res.Accepted)
	assert.Equal(t, float64(0), res.Confidence)
}

func TestEvaluate_NonAgriculturalRejected(t *testing.T) {
	sink := &recordingSink{}
	g := newTestGate(sink)
	res := g.Evaluate(context.Background(), domain.Query{Text: "Quel est le prix du bitcoin aujourd'hui ?", Language: "fr"})
	require.False(t, res.Accepted)
	assert.Equal(t, "non_agricultural", res.RejectionReason)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "non_agricultural", sink.records[0].Reason)
}

func TestEvaluate_AgriculturalQueryAccepted(t *testing.T) {
	g := newTestGate(nil)
	res := g.Evaluate(context.Background(), domain.Query{
		Text:     "What is the target body weight for Ross 308 males at 35 days?",
		Language: "en",
	})
	assert.True(t, res.Accepted)
	assert.Greater(t, res.Confidence, float64(0))
}

func TestEvaluate_GenericAgriculturalMentionAcceptedEvenWithoutStrongSignal(t *testing.T) {
	g := newTestGate(nil)
	res := g.Evaluate(context.Background(), domain.Query{Text: "Mes poulets ne grossissent pas", Language: "fr"})
	assert.True(t, res.Accepted)
}

func TestEvaluate_AmbiguousQueryBelowThresholdRejected(t *testing.T) {
	g := newTestGate(nil)
	res := g.Evaluate(context.Background(), domain.Query{Text: "bonjour comment ça va", Language: "fr"})
	assert.False(t, res.Accepted)
	assert.Equal(t, "too_general", res.RejectionReason)
}

func TestNormalize_StripsDiacriticsAndPunctuation(t *testing.T) {
	assert.Equal(t, "poulets elevage temperature", normalize("Poulets, Élevage! Température?"))
}
