package externalsources

import (
	"context"
	"errors"
	"testing"

	"poultryqa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	name   string
	weight float64
	docs   []domain.ExternalDocument
	err    error
}

func (f fakeAdapter) Name() string    { return f.name }
func (f fakeAdapter) Weight() float64 { return f.weight }
func (f fakeAdapter) Search(ctx context.Context, query string, maxResults, minYear int) ([]domain.ExternalDocument, error) {
	return f.docs, f.err
}

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}
func (fakeEmbedder) Name() string             { return "fake" }
func (fakeEmbedder) Dimension() int            { return 3 }
func (fakeEmbedder) Ping(context.Context) error { return nil }

func TestSearch_OneFailingSourceStillSucceeds(t *testing.T) {
	m := &Manager{
		adapters: []Adapter{
			fakeAdapter{name: "semantic_scholar", docs: []domain.ExternalDocument{
				{Title: "Broiler growth curves", Year: 2022, Source: "semantic_scholar"},
			}},
			fakeAdapter{name: "pubmed", err: errors.New("timeout")},
		},
		embedder: fakeEmbedder{},
	}
	res := m.Search(context.Background(), "broiler growth", "en", 5, 2015)
	require.True(t, res.Found)
	assert.Equal(t, 2, res.SourcesSearched)
	assert.Equal(t, 1, res.SourcesSucceeded)
	assert.Equal(t, 1, res.TotalResults)
}

func TestSearch_AllSourcesFailReturnsNotFound(t *testing.T) {
	m := &Manager{
		adapters: []Adapter{
			fakeAdapter{name: "semantic_scholar", err: errors.New("down")},
			fakeAdapter{name: "pubmed", err: errors.New("down")},
		},
		embedder: fakeEmbedder{},
	}
	res := m.Search(context.Background(), "broiler growth", "en", 5, 2015)
	assert.False(t, res.Found)
	assert.Error(t, res.Error)
}

func TestSearch_ZeroEnabledSourcesReturnsNotFoundNoCalls(t *testing.T) {
	m := &Manager{}
	res := m.Search(context.Background(), "broiler growth", "en", 5, 2015)
	assert.False(t, res.Found)
	assert.Equal(t, 0, res.SourcesSearched)
}

func TestSearch_DedupesAcrossSourcesBeforeCountingUnique(t *testing.T) {
	shared := domain.ExternalDocument{Title: "Shared paper", Year: 2022, DOI: "10.1/x"}
	m := &Manager{
		adapters: []Adapter{
			fakeAdapter{name: "semantic_scholar", docs: []domain.ExternalDocument{shared}},
			fakeAdapter{name: "europe_pmc", docs: []domain.ExternalDocument{shared}},
		},
		embedder: fakeEmbedder{},
	}
	res := m.Search(context.Background(), "q", "en", 5, 2015)
	require.True(t, res.Found)
	assert.Equal(t, 2, res.TotalResults)
	assert.Equal(t, 1, res.UniqueResults)
}
