// Package entities implements IntentExtractor (C1): two-tier entity and
// intent extraction over a query and its conversation history.
package entities

import (
	"context"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"
)

// Extractor implements IntentExtractor. Provider may be nil, in which case
// tier 2 is skipped and tier-1-only results are returned.
type Extractor struct {
	Provider llm.Provider
}

// New constructs an Extractor. provider may be nil to disable tier 2.
func New(provider llm.Provider) *Extractor {
	return &Extractor{Provider: provider}
}

// Extract runs both tiers and returns the derived Intent and
// ExtractedEntities for query.
func (x *Extractor) Extract(ctx context.Context, query domain.Query) (domain.Intent, domain.ExtractedEntities) {
	current := tier1Extract(query.Text, query.Language)

	merged := current
	if len(query.History) > 0 {
		last := query.History[len(query.History)-1]
		baseline := tier1Extract(last.Question, query.Language)
		merged = mergeOverCurrent(baseline, current)
	}

	if needsTier2(merged) {
		merged = tier2Extract(ctx, x.Provider, query.Text, merged)
	}

	intent := classifyIntent(query.Text, merged)
	return intent, merged
}
