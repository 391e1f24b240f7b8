// Package vectorretriever implements C6: embedding-based top-k retrieval
// over the chunk vector store.
package vectorretriever

import (
	"context"

	"poultryqa/internal/domain"
	"poultryqa/internal/rag/embedder"
	"poultryqa/internal/vectorstore"
)

const (
	defaultTopK = 10
	maxTopK     = 50
)

// Retriever wires an Embedder and a Store together to answer
// (query_text, filters, top_k) -> []VectorChunk.
type Retriever struct {
	Embedder embedder.Embedder
	Store    vectorstore.Store
}

// New constructs a Retriever over an already-configured embedder and store.
func New(emb embedder.Embedder, store vectorstore.Store) *Retriever {
	return &Retriever{Embedder: emb, Store: store}
}

// Retrieve embeds queryText and runs a similarity search under filters,
// clamping topK to [1, maxTopK] (default defaultTopK when <= 0).
//
// Filters are handed to the store as-is: every Store implementation here
// (Qdrant, in-memory) applies a metadata filter natively during the
// search itself, so there is no separate post-search filtering pass to
// perform — the store IS the "pre-search where supported" path, and none
// of our backends fall back to the "else" branch.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, filters domain.RouteFilters, topK int) ([]domain.VectorChunk, error) {
	k := topK
	switch {
	case k <= 0:
		k = defaultTopK
	case k > maxTopK:
		k = maxTopK
	}

	vectors, err := r.Embedder.EmbedBatch(ctx, []string{queryText})
	if err != nil {
		return nil, domain.NewEmbeddingError(domain.ComponentVectorRetriever, err)
	}
	if len(vectors) == 0 {
		return nil, domain.NewEmbeddingError(domain.ComponentVectorRetriever, nil)
	}

	results, err := r.Store.SimilaritySearch(ctx, vectors[0], k, encodeFilters(filters))
	if err != nil {
		return nil, domain.NewVectorStoreError(domain.ComponentVectorRetriever, "similarity search", err)
	}

	chunks := make([]domain.VectorChunk, len(results))
	for i, res := range results {
		chunks[i] = vectorstore.DecodeChunk(res)
	}
	return chunks, nil
}

// encodeFilters maps the subset of RouteFilters that applies to document
// chunks (species, strain/line) onto chunk metadata keys. Sex, AgeDays and
// Metrics describe performance-table rows, not research documents, so they
// have no corresponding chunk metadata field and are not filtered on here.
func encodeFilters(f domain.RouteFilters) map[string]string {
	filter := make(map[string]string)
	if f.Species != "" {
		filter[vectorstore.MetaSpecies] = f.Species
	}
	if f.Line != "" {
		filter[vectorstore.MetaBreed] = f.Line
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
