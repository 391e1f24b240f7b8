package externalsources

import (
	"context"
	"net/http"
	"time"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"
)

// Adapter is one external academic/agricultural source.
type Adapter interface {
	Name() string
	Weight() float64
	Search(ctx context.Context, query string, maxResults, minYear int) ([]domain.ExternalDocument, error)
}

// baseAdapter holds what every adapter needs regardless of the API it
// wraps: an HTTP client, its own token bucket, and retry/timeout limits.
// Concrete adapters embed it and implement their own request/parse logic.
type baseAdapter struct {
	name       string
	weight     float64
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
	maxRetries int
}

func newBaseAdapter(name string, cfg config.ExternalSourceConfig) baseAdapter {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	maxRetries := 3
	return baseAdapter{
		name:       name,
		weight:     cfg.Weight,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    newTokenBucket(burst, rps),
		maxRetries: maxRetries,
	}
}

func (b baseAdapter) Name() string    { return b.name }
func (b baseAdapter) Weight() float64 { return b.weight }

// doWithRetry rate-limits then retries transient HTTP errors up to
// maxRetries times with linear backoff. Context cancellation aborts
// immediately rather than retrying.
func (b baseAdapter) doWithRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if err := b.limiter.wait(ctx); err != nil {
			return nil, err
		}
		req, err := build()
		if err != nil {
			return nil, err
		}
		resp, err := b.httpClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if err == nil {
			resp.Body.Close()
			lastErr = &httpStatusError{status: resp.StatusCode}
		} else {
			lastErr = err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 200 * time.Millisecond):
		}
	}
	return nil, lastErr
}

type httpStatusError struct{ status int }

func (e *httpStatusError) Error() string {
	return "external source returned status " + http.StatusText(e.status)
}
