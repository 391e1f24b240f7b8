package agentrag

import (
	"fmt"
	"regexp"
	"strings"

	"poultryqa/internal/domain"
)

var (
	metricKeywords = map[string][]string{
		"weight": {"weight", "poids", "gram", "kg"},
		"fcr":     {"fcr", "conversion", "efficiency"},
		"water":   {"water", "eau", "consumption"},
		"feed":    {"feed", "aliment", "intake"},
	}
	lineKeywords = []string{"ross", "cobb", "hubbard", "lohmann", "hyline", "isa"}

	ifThenRe = regexp.MustCompile(`(?i)\bif\b(.*)\bthen\b(.*)`)
)

// Decompose builds the sub-query set for a non-SIMPLE query, per the
// complexity-specific decomposers. Sub-queries never depend on each other —
// C10 is where dependent step DAGs live.
func Decompose(query string, complexity domain.Complexity, entities domain.ExtractedEntities) []domain.SubQuery {
	switch complexity {
	case domain.ComplexityMultiMetric:
		return decomposeMultiMetric(query, entities)
	case domain.ComplexityComparative:
		return decomposeComparative(query, entities)
	case domain.ComplexityConditional:
		return decomposeConditional(query)
	case domain.ComplexitySequential:
		return decomposeSequential(query)
	case domain.ComplexityDiagnostic:
		return decomposeDiagnostic(query)
	default:
		return []domain.SubQuery{{Query: query, Intent: domain.IntentGeneralPoultry, Priority: 1}}
	}
}

func decomposeMultiMetric(query string, entities domain.ExtractedEntities) []domain.SubQuery {
	q := strings.ToLower(query)
	var metrics []string
	for metric, keywords := range metricKeywords {
		if containsAny(q, keywords) {
			metrics = append(metrics, metric)
		}
	}
	if len(metrics) == 0 {
		return []domain.SubQuery{{Query: query, Intent: domain.IntentMetricQuery, Priority: 1}}
	}

	lineContext := ""
	if entities.Breed != "" {
		lineContext = " for " + entities.Breed
	}
	ageContext := ""
	if entities.AgeDays != nil {
		ageContext = fmt.Sprintf(" at %d days", *entities.AgeDays)
	}

	subqueries := make([]domain.SubQuery, 0, len(metrics))
	for _, metric := range metrics {
		subqueries = append(subqueries, domain.SubQuery{
			Query:    fmt.Sprintf("What is the target %s%s%s?", metric, lineContext, ageContext),
			Intent:   domain.IntentMetricQuery,
			Priority: 1,
		})
	}
	return subqueries
}

func decomposeComparative(query string, entities domain.ExtractedEntities) []domain.SubQuery {
	q := strings.ToLower(query)
	var lines []string
	for _, line := range lineKeywords {
		if strings.Contains(q, line) {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		if entities.Breed != "" {
			lines = []string{entities.Breed, "industry standard"}
		} else {
			return []domain.SubQuery{{Query: query, Intent: domain.IntentMetricQuery, Priority: 1}}
		}
	}

	base := query
	if idx := strings.Index(q, "vs"); idx >= 0 {
		base = strings.TrimSpace(query[:idx])
	}

	subqueries := make([]domain.SubQuery, 0, len(lines))
	for _, line := range lines {
		subqueries = append(subqueries, domain.SubQuery{
			Query:    fmt.Sprintf("%s for %s", base, line),
			Intent:   domain.IntentMetricQuery,
			Priority: 1,
		})
	}
	return subqueries
}

func decomposeConditional(query string) []domain.SubQuery {
	if m := ifThenRe.FindStringSubmatch(query); m != nil {
		condition := strings.TrimSpace(m[1])
		action := strings.TrimSpace(m[2])
		return []domain.SubQuery{
			{Query: "Normal conditions for " + condition, Intent: domain.IntentMetricQuery, Priority: 1},
			{Query: "Recommended actions: " + action, Intent: domain.IntentProtocolQuery, Priority: 2},
		}
	}
	return []domain.SubQuery{{Query: query, Intent: domain.IntentGeneralPoultry, Priority: 1}}
}

// decomposeSequential has no dedicated step-splitting logic — neither did
// the original decomposer. A SEQUENTIAL query still gets routed through the
// decomposed/synthesized path (distinct synthesis instructions), but as a
// single sub-query equivalent to the simple path.
func decomposeSequential(query string) []domain.SubQuery {
	return []domain.SubQuery{
		{Query: query, Intent: domain.IntentProtocolQuery, Priority: 1},
	}
}

func decomposeDiagnostic(query string) []domain.SubQuery {
	return []domain.SubQuery{
		{Query: "Clinical signs and symptoms observed: " + query, Intent: domain.IntentDiagnosisTriage, Priority: 1},
		{Query: "Possible causes of the described symptoms", Intent: domain.IntentDiagnosisTriage, Priority: 2},
		{Query: "Action protocol for these symptoms", Intent: domain.IntentProtocolQuery, Priority: 3},
	}
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
