package externalsources

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"
)

// fullTextFetcher retrieves the HTML rendering of an open-access article
// page and reduces it to the main body text via Readability, converted to
// Markdown so it can sit alongside Abstract in ExternalDocument.FullText.
// Best-effort only: a failing fetch never fails the surrounding Search call,
// it just leaves FullText empty.
type fullTextFetcher struct {
	client   *http.Client
	maxBytes int64
}

const fullTextMaxBytes = 4 * 1000 * 1000

func newFullTextFetcher() *fullTextFetcher {
	dialer := &net.Dialer{Timeout: 7 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   7 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
	return &fullTextFetcher{
		client:   &http.Client{Transport: transport, Timeout: 15 * time.Second},
		maxBytes: fullTextMaxBytes,
	}
}

// fetchMarkdown downloads rawURL and returns the article body as Markdown.
// It returns an empty string (no error propagated to the caller) for any
// non-HTML response — full text enrichment only understands article pages.
func (f *fullTextFetcher) fetchMarkdown(ctx context.Context, rawURL string) string {
	if rawURL == "" {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; poultryqa-fulltext/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "html") {
		return ""
	}

	limited := io.LimitReader(resp.Body, f.maxBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil || int64(len(body)) > f.maxBytes {
		return ""
	}

	utf8Body, err := toUTF8FullText(body, ct)
	if err != nil {
		return ""
	}

	finalURL := resp.Request.URL.String()
	base, _ := url.Parse(finalURL)
	art, rerr := readability.FromReader(strings.NewReader(string(utf8Body)), base)
	articleHTML := string(utf8Body)
	if rerr == nil && strings.TrimSpace(art.Content) != "" {
		articleHTML = art.Content
	}

	md, mdErr := htmltomarkdown.ConvertString(articleHTML, converter.WithDomain(baseOriginFullText(finalURL)))
	if mdErr != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

func toUTF8FullText(b []byte, contentType string) ([]byte, error) {
	_, params, err := splitContentTypeParams(contentType)
	label := params["charset"]
	if err != nil || label == "" || strings.EqualFold(label, "utf-8") {
		return b, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func splitContentTypeParams(h string) (string, map[string]string, error) {
	parts := strings.Split(h, ";")
	params := map[string]string{}
	for _, p := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(p), "=", 2)
		if len(kv) == 2 {
			params[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.Trim(strings.TrimSpace(kv[1]), `"`)
		}
	}
	return strings.TrimSpace(parts[0]), params, nil
}

func baseOriginFullText(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
