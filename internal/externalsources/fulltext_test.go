package externalsources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullTextFetcher_FetchMarkdownExtractsArticleBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Broiler Growth Study</title></head>
<body><article><h1>Broiler Growth Study</h1><p>Ross 308 broilers reached target weight at 35 days under standard conditions.</p></article></body></html>`))
	}))
	defer srv.Close()

	f := newFullTextFetcher()
	md := f.fetchMarkdown(context.Background(), srv.URL)
	assert.True(t, strings.Contains(md, "Ross 308"))
}

func TestFullTextFetcher_NonHTMLResponseYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := newFullTextFetcher()
	md := f.fetchMarkdown(context.Background(), srv.URL)
	assert.Empty(t, md)
}

func TestFullTextFetcher_EmptyURLYieldsEmpty(t *testing.T) {
	f := newFullTextFetcher()
	assert.Empty(t, f.fetchMarkdown(context.Background(), ""))
}
