// Package remote fetches dataset and boundary files over HTTP with retries,
// exponential backoff and a circuit breaker.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// ErrNoClient is returned by a Fetcher built without an http.Client.
var ErrNoClient = errors.New("http client not configured")

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Temporary reports whether a retry may succeed: rate limiting and server errors.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// delay is the wait before retry number attempt (0-based).
func (b BackoffConfig) delay(attempt int) time.Duration {
	d := b.InitialInterval << attempt
	if b.MaxInterval > 0 && (d > b.MaxInterval || d <= 0) {
		d = b.MaxInterval
	}
	return d
}

// Fetcher downloads files. Every attempt goes through one circuit breaker.
type Fetcher struct {
	client  *http.Client
	backoff BackoffConfig
	breaker *gobreaker.CircuitBreaker
}

// NewFetcher creates a Fetcher with the default backoff policy.
func NewFetcher(client *http.Client) *Fetcher {
	return NewFetcherWithBackoff(client, BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	})
}

// NewFetcherWithBackoff creates a Fetcher with an explicit backoff policy. A
// negative retry count means no retries.
func NewFetcherWithBackoff(client *http.Client, backoff BackoffConfig) *Fetcher {
	if backoff.MaxRetries < 0 {
		backoff.MaxRetries = 0
	}
	if backoff.InitialInterval <= 0 {
		backoff.InitialInterval = 500 * time.Millisecond
	}
	return &Fetcher{
		client:  client,
		backoff: backoff,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "remote-fetch",
			MaxRequests: 5,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

// Fetch GETs url and returns the response body. The caller closes it.
func (f *Fetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if f.client == nil {
		return nil, ErrNoClient
	}

	for attempt := 0; ; attempt++ {
		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if attempt >= f.backoff.MaxRetries || !retryable(ctx, err) {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}

		timer := time.NewTimer(f.backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("fetch %s: %w", url, ctx.Err())
		case <-timer.C:
		}
	}
}

func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	body, err := f.breaker.Execute(func() (interface{}, error) {
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &StatusError{Code: resp.StatusCode}
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, err
	}
	return body.(io.ReadCloser), nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	// Transport errors.
	return true
}
