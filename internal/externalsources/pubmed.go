package externalsources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"
)

// pubmedAdapter searches NIH's PubMed via the two-step E-utilities flow:
// esearch for matching PMIDs, then esummary for their metadata.
type pubmedAdapter struct {
	baseAdapter
	apiKey string
}

func newPubMed(cfg config.ExternalSourceConfig) *pubmedAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	}
	return &pubmedAdapter{baseAdapter: newBaseAdapter("pubmed", cfg), apiKey: cfg.APIKey}
}

type pubmedSearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedSummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type pubmedDocSum struct {
	Title       string `json:"title"`
	PubDate     string `json:"pubdate"`
	FullJournal string `json:"fulljournalname"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
	ArticleIDs []struct {
		IDType string `json:"idtype"`
		Value  string `json:"value"`
	} `json:"articleids"`
}

func (a *pubmedAdapter) Search(ctx context.Context, query string, maxResults, minYear int) ([]domain.ExternalDocument, error) {
	ids, err := a.esearch(ctx, query, maxResults, minYear)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return a.esummary(ctx, ids)
}

func (a *pubmedAdapter) esearch(ctx context.Context, query string, maxResults, minYear int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {fmt.Sprintf("%s AND %d:3000[pdat]", query, minYear)},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
	}
	if a.apiKey != "" {
		params.Set("api_key", a.apiKey)
	}
	reqURL := a.baseURL + "/esearch.fcgi?" + params.Encode()

	resp, err := a.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("pubmed esearch: %w", err)
	}
	defer resp.Body.Close()

	var out pubmedSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pubmed esearch decode: %w", err)
	}
	return out.ESearchResult.IDList, nil
}

func (a *pubmedAdapter) esummary(ctx context.Context, ids []string) ([]domain.ExternalDocument, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"json"},
	}
	if a.apiKey != "" {
		params.Set("api_key", a.apiKey)
	}
	reqURL := a.baseURL + "/esummary.fcgi?" + params.Encode()

	resp, err := a.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("pubmed esummary: %w", err)
	}
	defer resp.Body.Close()

	var out pubmedSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pubmed esummary decode: %w", err)
	}

	docs := make([]domain.ExternalDocument, 0, len(ids))
	for _, id := range ids {
		raw, ok := out.Result[id]
		if !ok {
			continue
		}
		var sum pubmedDocSum
		if err := json.Unmarshal(raw, &sum); err != nil {
			continue
		}
		authors := make([]string, 0, len(sum.Authors))
		for _, au := range sum.Authors {
			authors = append(authors, au.Name)
		}
		var doi, pmcid string
		for _, aid := range sum.ArticleIDs {
			switch aid.IDType {
			case "doi":
				doi = aid.Value
			case "pmc":
				pmcid = aid.Value
			}
		}
		docs = append(docs, domain.ExternalDocument{
			Title:    sum.Title,
			Authors:  authors,
			Year:     parsePubDateYear(sum.PubDate),
			Source:   a.name,
			DOI:      doi,
			PMID:     id,
			PMCID:    pmcid,
			Journal:  sum.FullJournal,
			Language: "en",
		})
	}
	return docs, nil
}

func parsePubDateYear(pubdate string) int {
	if len(pubdate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(pubdate[:4])
	if err != nil {
		return 0
	}
	return year
}
