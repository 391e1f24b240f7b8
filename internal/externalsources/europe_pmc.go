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

// europePMCFullTextLimit caps how many of a search's results get a follow-up
// full-text fetch — Europe PMC's article pages are comparatively expensive
// to retrieve and convert, so only the top few are worth it.
const europePMCFullTextLimit = 2

// europePMCAdapter searches Europe PMC, which extends PubMed's coverage
// with preprints and European grey literature. Open-access hits (those with
// a PMCID) get their article page fetched and reduced to Markdown via
// fullText, populating ExternalDocument.FullText alongside the abstract.
type europePMCAdapter struct {
	baseAdapter
	fullText *fullTextFetcher
}

func newEuropePMC(cfg config.ExternalSourceConfig) *europePMCAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.ebi.ac.uk/europepmc/webservices/rest"
	}
	return &europePMCAdapter{baseAdapter: newBaseAdapter("europe_pmc", cfg), fullText: newFullTextFetcher()}
}

type europePMCResponse struct {
	ResultList struct {
		Result []struct {
			Title         string `json:"title"`
			AbstractText  string `json:"abstractText"`
			AuthorString  string `json:"authorString"`
			PubYear       string `json:"pubYear"`
			DOI           string `json:"doi"`
			PMID          string `json:"pmid"`
			PMCID         string `json:"pmcid"`
			CitedByCount  int    `json:"citedByCount"`
			JournalInfo   struct {
				Journal struct {
					Title string `json:"title"`
				} `json:"journal"`
			} `json:"journalInfo"`
		} `json:"result"`
	} `json:"resultList"`
}

func (a *europePMCAdapter) Search(ctx context.Context, query string, maxResults, minYear int) ([]domain.ExternalDocument, error) {
	params := url.Values{
		"query":    {fmt.Sprintf("%s AND PUB_YEAR:[%d TO 3000]", query, minYear)},
		"format":   {"json"},
		"pageSize": {strconv.Itoa(maxResults)},
	}
	reqURL := a.baseURL + "/search?" + params.Encode()

	resp, err := a.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("europe_pmc search: %w", err)
	}
	defer resp.Body.Close()

	var out europePMCResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("europe_pmc decode: %w", err)
	}

	docs := make([]domain.ExternalDocument, 0, len(out.ResultList.Result))
	for _, r := range out.ResultList.Result {
		year, _ := strconv.Atoi(r.PubYear)
		var authors []string
		if r.AuthorString != "" {
			for _, name := range strings.Split(r.AuthorString, ", ") {
				authors = append(authors, strings.TrimSpace(name))
			}
		}
		doc := domain.ExternalDocument{
			Title:         r.Title,
			Abstract:      r.AbstractText,
			Authors:       authors,
			Year:          year,
			Source:        a.name,
			DOI:           r.DOI,
			PMID:          r.PMID,
			PMCID:         r.PMCID,
			Journal:       r.JournalInfo.Journal.Title,
			CitationCount: r.CitedByCount,
			Language:      "en",
			URL:           europePMCArticleURL(r.PMCID, r.PMID),
		}
		docs = append(docs, doc)
	}
	a.enrichFullText(ctx, docs)
	return docs, nil
}

// enrichFullText fetches and fills FullText in place for the first few
// open-access results. Failures are silent — Abstract already carries
// enough to rank and cite the document.
func (a *europePMCAdapter) enrichFullText(ctx context.Context, docs []domain.ExternalDocument) {
	fetched := 0
	for i := range docs {
		if docs[i].PMCID == "" || fetched >= europePMCFullTextLimit {
			continue
		}
		docs[i].FullText = a.fullText.fetchMarkdown(ctx, docs[i].URL)
		fetched++
	}
}

func europePMCArticleURL(pmcid, pmid string) string {
	switch {
	case pmcid != "":
		return "https://europepmc.org/article/PMC/" + pmcid
	case pmid != "":
		return "https://europepmc.org/article/MED/" + pmid
	default:
		return ""
	}
}
