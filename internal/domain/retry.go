package domain

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig tunes the bounded-retry helper used for transient backend
// errors (VectorStoreError, PerfStoreBackend, SourceError, EmbeddingError,
// ProviderError).
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	JitterPercent float64
}

// DefaultRetryConfig is the spec's default: 3 attempts, exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     200 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		JitterPercent: 0.2,
	}
}

// Retry calls fn up to cfg.MaxAttempts times with exponential backoff and
// jitter between attempts, stopping early if fn's error is not retryable
// (per IsRetryable) or ctx is cancelled. Data, logic, input, and
// cancellation errors are returned immediately without retrying.
func Retry(ctx context.Context, cfg RetryConfig, fn func(attempt int) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}
		delay := cfg.BaseDelay * (1 << attempt)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
		jitter := time.Duration(float64(delay) * cfg.JitterPercent * rand.Float64())
		select {
		case <-ctx.Done():
			return NewCancelled("")
		case <-time.After(delay + jitter):
		}
	}
	return lastErr
}
