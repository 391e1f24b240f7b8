package vectorstore

import (
	"strconv"
	"time"

	"poultryqa/internal/domain"
)

// Metadata keys shared between whatever writes a chunk (ingestion) and
// whatever reads it back (retrieval). The store itself only knows
// map[string]string, so this is the one place that encoding is defined.
const (
	MetaContent       = "content"
	MetaSourceID      = "source_id"
	MetaSourceType    = "source_type"
	MetaBreed         = "breed"
	MetaSpecies       = "species"
	MetaPhase         = "phase"
	MetaAgeBand       = "age_band"
	MetaDOI           = "doi"
	MetaPMID          = "pmid"
	MetaCitationCount = "citation_count"
	MetaIngestedAt    = "ingested_at"
	MetaQueryContext  = "query_context"
	MetaChunkIndex    = "chunk_index"
	MetaTotalChunks   = "total_chunks"
	MetaIsFirstChunk  = "is_first_chunk"
	MetaIsLastChunk   = "is_last_chunk"
)

// EncodeChunk flattens a VectorChunk's content and metadata into the
// map[string]string payload the Store interface accepts.
func EncodeChunk(c domain.VectorChunk) map[string]string {
	m := c.Metadata
	return map[string]string{
		MetaContent:       c.Content,
		MetaSourceID:      m.SourceID,
		MetaSourceType:    string(m.SourceType),
		MetaBreed:         m.Breed,
		MetaSpecies:       m.Species,
		MetaPhase:         m.Phase,
		MetaAgeBand:       m.AgeBand,
		MetaDOI:           m.DOI,
		MetaPMID:          m.PMID,
		MetaCitationCount: strconv.Itoa(m.CitationCount),
		MetaIngestedAt:    m.IngestedAt.UTC().Format(time.RFC3339),
		MetaQueryContext:  m.QueryContext,
		MetaChunkIndex:    strconv.Itoa(m.ChunkIndex),
		MetaTotalChunks:   strconv.Itoa(m.TotalChunks),
		MetaIsFirstChunk:  strconv.FormatBool(m.IsFirstChunk),
		MetaIsLastChunk:   strconv.FormatBool(m.IsLastChunk),
	}
}

// DecodeChunk reconstructs a VectorChunk from a search Result. The
// embedding vector itself is not carried (Result doesn't return it, and
// retrieval callers only need Content+Metadata+Score).
func DecodeChunk(r Result) domain.VectorChunk {
	md := r.Metadata
	ingestedAt, _ := time.Parse(time.RFC3339, md[MetaIngestedAt])
	return domain.VectorChunk{
		ChunkID: r.ID,
		Content: md[MetaContent],
		Score:   r.Score,
		Metadata: domain.ChunkMetadata{
			SourceID:      md[MetaSourceID],
			SourceType:    domain.SourceType(md[MetaSourceType]),
			Breed:         md[MetaBreed],
			Species:       md[MetaSpecies],
			Phase:         md[MetaPhase],
			AgeBand:       md[MetaAgeBand],
			DOI:           md[MetaDOI],
			PMID:          md[MetaPMID],
			CitationCount: atoiSafe(md[MetaCitationCount]),
			IngestedAt:    ingestedAt,
			QueryContext:  md[MetaQueryContext],
			ChunkIndex:    atoiSafe(md[MetaChunkIndex]),
			TotalChunks:   atoiSafe(md[MetaTotalChunks]),
			IsFirstChunk:  md[MetaIsFirstChunk] == "true",
			IsLastChunk:   md[MetaIsLastChunk] == "true",
		},
	}
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
