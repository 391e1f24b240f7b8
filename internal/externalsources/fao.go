package externalsources

import (
	"context"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"
)

// faoAdapter represents FAO's agricultural-publications coverage. FAO has
// no stable, documented public search API (only a legal-instruments
// lookup, FAOLEX, intended for a different purpose) — it returns an empty
// result set rather than scraping an HTML search page. It is registered
// so the adapter list and composite-score source weights match the four
// named sources. Configuration enables it by default (FAO_ENABLED); while
// enabled it counts toward sources_searched but never toward
// sources_succeeded.
type faoAdapter struct{ baseAdapter }

func newFAO(cfg config.ExternalSourceConfig) *faoAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.fao.org/faolex/api"
	}
	return &faoAdapter{newBaseAdapter("fao", cfg)}
}

func (a *faoAdapter) Search(ctx context.Context, query string, maxResults, minYear int) ([]domain.ExternalDocument, error) {
	return nil, nil
}
