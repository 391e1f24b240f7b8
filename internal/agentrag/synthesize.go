package agentrag

import (
	"fmt"
	"strings"

	"poultryqa/internal/domain"
)

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func multiMetricSynthesisPrompt(query string, answers []domain.SynthesizedAnswer) string {
	var b strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&b, "\nSource %d: %s\n", i+1, truncate(a.Text, 300))
	}
	return fmt.Sprintf(`You are a poultry husbandry expert. Synthesize this information to answer a multi-metric question.

Question: %s

Information by metric:
%s

Provide a structured answer covering every metric, target values and normal ranges, the main influencing factors, and order it by practical priority. Maximum 400 words.`, query, b.String())
}

func comparativeSynthesisPrompt(query string, answers []domain.SynthesizedAnswer) string {
	var b strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&b, "\nSource %d (confidence %.2f): %s\n", i+1, a.Confidence, a.Text)
	}
	return fmt.Sprintf(`You are a poultry husbandry expert. Compare this information to answer the question.

Question: %s

Information to compare:
%s

Compare point by point, highlight advantages/disadvantages, give a data-backed recommendation, and structure the answer as a table where appropriate. Maximum 450 words.`, query, b.String())
}

func diagnosticSynthesisPrompt(query string, answers []domain.SynthesizedAnswer) string {
	var b strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&b, "\nElement %d: %s\n", i+1, a.Text)
	}
	return fmt.Sprintf(`You are a veterinarian specializing in poultry. Analyze this information to answer the diagnostic question.

Question: %s

Diagnostic information:
%s

Respond with: Differential diagnosis > Further investigation > Action plan, prioritizing causes by likelihood and recommending immediate actions where warranted.`, query, b.String())
}

func generalSynthesisPrompt(query string, answers []domain.SynthesizedAnswer) string {
	var b strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&b, "\nSource %d (confidence %.2f): %s\n", i+1, a.Confidence, a.Text)
	}
	return fmt.Sprintf(`Synthesize this poultry information to answer the question precisely.

Question: %s

Available information:
%s

Provide a synthesized, precise, practical answer in maximum 300 words.`, query, b.String())
}

func synthesisPrompt(query string, complexity domain.Complexity, answers []domain.SynthesizedAnswer) string {
	switch complexity {
	case domain.ComplexityMultiMetric:
		return multiMetricSynthesisPrompt(query, answers)
	case domain.ComplexityComparative:
		return comparativeSynthesisPrompt(query, answers)
	case domain.ComplexityDiagnostic:
		return diagnosticSynthesisPrompt(query, answers)
	default:
		return generalSynthesisPrompt(query, answers)
	}
}

// fallbackConcatenation is used when the completion provider itself fails
// during synthesis and the single C9 call over the original query fails as
// well — the best sub-answers are joined directly instead of losing all
// partial progress.
func fallbackConcatenation(answers []domain.SynthesizedAnswer) string {
	sorted := append([]domain.SynthesizedAnswer(nil), answers...)
	sortByConfidenceDesc(sorted)

	limit := len(sorted)
	if limit > 3 {
		limit = 3
	}
	var parts []string
	for i, a := range sorted[:limit] {
		parts = append(parts, fmt.Sprintf("Point %d: %s", i+1, a.Text))
	}
	return strings.Join(parts, "\n\n")
}

func sortByConfidenceDesc(answers []domain.SynthesizedAnswer) {
	for i := 1; i < len(answers); i++ {
		for j := i; j > 0 && answers[j].Confidence > answers[j-1].Confidence; j-- {
			answers[j], answers[j-1] = answers[j-1], answers[j]
		}
	}
}
