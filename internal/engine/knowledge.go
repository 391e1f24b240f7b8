package engine

import "context"

// ExpandKnowledgeResult is endpoint 3's return shape:
// { documents_ingested: int, sources_succeeded: int }.
type ExpandKnowledgeResult struct {
	DocumentsIngested int
	SourcesSucceeded  int
}

// ExpandKnowledge is endpoint 3: it triggers C7 (external source fan-out)
// followed by C8 (chunk and persist) over every document the fan-out
// returned. A source failure never aborts the call — the result simply
// reports fewer sources_succeeded and, transitively, fewer documents
// ingested than sources_searched would allow.
func (e *Engine) ExpandKnowledge(ctx context.Context, query, language string) ExpandKnowledgeResult {
	if language == "" {
		language = e.DefaultLanguage
	}

	search := e.Sources.Search(ctx, query, language, defaultMaxResultsPerSource, defaultMinYear)

	ingested := 0
	for _, doc := range search.AllDocuments {
		if _, err := e.Ingestion.Ingest(ctx, doc, query, language); err == nil {
			ingested++
		}
	}

	return ExpandKnowledgeResult{
		DocumentsIngested: ingested,
		SourcesSucceeded:  search.SourcesSucceeded,
	}
}

const (
	defaultMaxResultsPerSource = 10
	defaultMinYear             = 2000
)
