package engine

import (
	"context"

	"poultryqa/internal/domain"
)

// PerfLookup is endpoint 4: raw access to the performance table, mainly
// for tests and tools. C5 itself already returns PerfStoreEmpty for a
// filter that matches no rows; this just guards the not-configured case.
func (e *Engine) PerfLookup(ctx context.Context, q domain.PerfQuery) (domain.PerfResult, error) {
	if e.PerfStore == nil {
		return domain.PerfResult{}, domain.NewPerfStoreBackend(domain.ComponentPerfStore, "performance store not configured", nil)
	}
	return e.PerfStore.Query(ctx, q)
}
