package externalsources

import (
	"strconv"
	"strings"

	"poultryqa/internal/domain"
)

// normalizeTitle lowercases and trims a title for the title+year dedup key.
func normalizeTitle(title string) string {
	return strings.TrimSpace(strings.ToLower(title))
}

// dedupe runs identity match, then (title, year) match,
// first occurrence wins. Stage (c), semantic dedup, is reserved for future
// use and intentionally not implemented — no component in this system
// currently needs it, and doing so would require an extra embedding pass
// over documents that step 4 already covers for relevance.
func dedupe(docs []domain.ExternalDocument) []domain.ExternalDocument {
	seenIDs := make(map[string]bool)
	seenTitleYear := make(map[string]bool)
	out := make([]domain.ExternalDocument, 0, len(docs))

	for _, d := range docs {
		key := d.IdentityKey(normalizeTitle)
		if strings.HasPrefix(key, "doi:") || strings.HasPrefix(key, "pmid:") || strings.HasPrefix(key, "pmcid:") {
			if seenIDs[key] {
				continue
			}
			seenIDs[key] = true
		}

		titleYear := normalizeTitle(d.Title) + "|" + strconv.Itoa(d.Year)
		if seenTitleYear[titleYear] {
			continue
		}
		seenTitleYear[titleYear] = true

		out = append(out, d)
	}
	return out
}
