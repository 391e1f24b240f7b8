package externalsources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"
)

// semanticScholarAdapter searches the Semantic Scholar Graph API, the
// broadest-coverage academic source in the fan-out.
type semanticScholarAdapter struct{ baseAdapter }

func newSemanticScholar(cfg config.ExternalSourceConfig) *semanticScholarAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.semanticscholar.org/graph/v1"
	}
	return &semanticScholarAdapter{newBaseAdapter("semantic_scholar", cfg)}
}

type semanticScholarResponse struct {
	Data []struct {
		Title         string   `json:"title"`
		Abstract      string   `json:"abstract"`
		Year          int      `json:"year"`
		CitationCount int      `json:"citationCount"`
		Venue         string   `json:"venue"`
		ExternalIDs   map[string]string `json:"externalIds"`
		Authors       []struct {
			Name string `json:"name"`
		} `json:"authors"`
		OpenAccessPDF *struct {
			URL string `json:"url"`
		} `json:"openAccessPdf"`
	} `json:"data"`
}

func (a *semanticScholarAdapter) Search(ctx context.Context, query string, maxResults, minYear int) ([]domain.ExternalDocument, error) {
	params := url.Values{
		"query":  {query},
		"year":   {fmt.Sprintf("%d-", minYear)},
		"limit":  {strconv.Itoa(maxResults)},
		"fields": {"title,abstract,year,authors,externalIds,citationCount,venue,openAccessPdf"},
	}
	reqURL := a.baseURL + "/paper/search?" + params.Encode()

	resp, err := a.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("semantic_scholar search: %w", err)
	}
	defer resp.Body.Close()

	var out semanticScholarResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("semantic_scholar decode: %w", err)
	}

	docs := make([]domain.ExternalDocument, 0, len(out.Data))
	for _, p := range out.Data {
		authors := make([]string, 0, len(p.Authors))
		for _, au := range p.Authors {
			authors = append(authors, au.Name)
		}
		url := ""
		if p.OpenAccessPDF != nil {
			url = p.OpenAccessPDF.URL
		}
		docs = append(docs, domain.ExternalDocument{
			Title:         p.Title,
			Abstract:      p.Abstract,
			Authors:       authors,
			Year:          p.Year,
			Source:        a.name,
			URL:           url,
			DOI:           p.ExternalIDs["DOI"],
			PMID:          p.ExternalIDs["PubMed"],
			PMCID:         p.ExternalIDs["PubMedCentral"],
			Journal:       p.Venue,
			CitationCount: p.CitationCount,
			Language:      "en",
		})
	}
	return docs, nil
}
