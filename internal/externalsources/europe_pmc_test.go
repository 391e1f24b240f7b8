package externalsources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"
)

func TestEuropePMCSearch_ParsesResultsWithoutFullTextWhenNoPMCID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultList":{"result":[
			{"title":"Broiler growth under heat stress","abstractText":"...","authorString":"Doe J, Smith A","pubYear":"2022","doi":"10.1/abc","pmid":"12345","citedByCount":3,"journalInfo":{"journal":{"title":"Poultry Sci"}}}
		]}}`))
	}))
	defer srv.Close()

	a := newEuropePMC(config.ExternalSourceConfig{BaseURL: srv.URL, Weight: 1})
	docs, err := a.Search(context.Background(), "broiler heat stress", 5, 2015)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Broiler growth under heat stress", docs[0].Title)
	assert.Equal(t, []string{"Doe J", "Smith A"}, docs[0].Authors)
	assert.Empty(t, docs[0].FullText)
	assert.Equal(t, "https://europepmc.org/article/MED/12345", docs[0].URL)
}

func TestEuropePMCEnrichFullText_FetchesOnlyUpToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><article><p>full text body</p></article></body></html>"))
	}))
	defer srv.Close()

	a := newEuropePMC(config.ExternalSourceConfig{Weight: 1})
	docs := []domain.ExternalDocument{
		{PMCID: "PMC1", URL: srv.URL},
		{PMCID: "PMC2", URL: srv.URL},
		{PMCID: "PMC3", URL: srv.URL},
	}
	a.enrichFullText(context.Background(), docs)

	assert.NotEmpty(t, docs[0].FullText)
	assert.NotEmpty(t, docs[1].FullText)
	assert.Empty(t, docs[2].FullText, "third doc exceeds europePMCFullTextLimit")
}
