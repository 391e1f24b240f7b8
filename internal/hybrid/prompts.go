package hybrid

import (
	"fmt"
	"strings"

	"poultryqa/internal/domain"
)

// formatPerfRows renders PerfResult rows as a compact reference table the
// completion provider can cite directly in its narration.
func formatPerfRows(rows []domain.PerfRow) string {
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "- %s (%s), day %d: %s = %.2f %s\n", r.Line, r.Sex, r.AgeDays, r.Metric, r.Value, r.Unit)
	}
	return b.String()
}

// formatChunks renders retrieved chunks with their similarity scores.
func formatChunks(chunks []domain.VectorChunk) string {
	var b strings.Builder
	for i, c := range chunks {
		fmt.Fprintf(&b, "[%d] (score %.2f) %s\n", i+1, c.Score, c.Content)
	}
	return b.String()
}

func perfSynthesisPrompt(query string, rows []domain.PerfRow, context string) string {
	p := fmt.Sprintf(`You are a poultry husbandry expert. Answer the question using the performance data below as ground truth.

Question: %s

Performance data:
%s
`, query, formatPerfRows(rows))
	if context != "" {
		p += fmt.Sprintf("\nSupporting reference material:\n%s\n", context)
	}
	p += "\nRespond with: the data, a brief interpretation, and any practical recommendations. Cite sources where relevant."
	return p
}

func vectorSynthesisPrompt(query string, chunks []domain.VectorChunk, perfContext string) string {
	p := fmt.Sprintf(`You are a poultry husbandry expert. Answer the question using the reference excerpts below.

Question: %s

Reference excerpts:
%s
`, query, formatChunks(chunks))
	if perfContext != "" {
		p += fmt.Sprintf("\nRelated performance table data for context:\n%s\n", perfContext)
	}
	p += "\nSynthesize a grounded answer, noting which excerpt(s) support each claim."
	return p
}

func comparisonPrompt(query string, rows []domain.PerfRow, chunks []domain.VectorChunk) string {
	return fmt.Sprintf(`You are a poultry husbandry expert. The question asks for a comparison. Use both the performance data and the reference excerpts to build a point-by-point comparison.

Question: %s

Performance data:
%s

Reference excerpts:
%s

Respond with a clear comparison (a short table or point-by-point list), then a brief recommendation.`, query, formatPerfRows(rows), formatChunks(chunks))
}

func enrichmentPrompt(query string, rows []domain.PerfRow, chunks []domain.VectorChunk) string {
	return fmt.Sprintf(`You are a poultry husbandry expert. Combine the performance table below with the supporting reference excerpts into a single grounded answer.

Question: %s

Performance data:
%s

Reference excerpts:
%s

Respond with the data, an interpretation grounded in the excerpts, and practical recommendations.`, query, formatPerfRows(rows), formatChunks(chunks))
}

func clarifyPrompt(query string, catalog []string) string {
	if len(catalog) == 0 {
		return fmt.Sprintf("I don't have enough detail to answer %q precisely. Could you specify the breed/strain and age?", query)
	}
	max := len(catalog)
	if max > 15 {
		max = 15
	}
	return fmt.Sprintf("I don't have enough detail to answer %q precisely. Here are the species/lines I currently have data for: %s. Which one applies, and at what age?",
		query, strings.Join(catalog[:max], ", "))
}
