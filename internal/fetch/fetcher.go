// Package fetch retrieves remote file content for descriptor and checksum
// generation. Transient failures are retried with exponential backoff so a
// flaky raw-content host does not abort a whole publish.
package fetch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/httpclient"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks -source=fetcher.go Fetcher

// DefaultMaxTries is the default number of attempts per URL, including the
// first one.
const DefaultMaxTries = 3

// Fetcher is an interface for retrieving remote content
type Fetcher interface {
	// Fetch retrieves the raw content of the given URL
	Fetch(ctx context.Context, url string) ([]byte, error)
	// FetchJSON retrieves the given URL requesting a JSON representation
	FetchJSON(ctx context.Context, url string) ([]byte, error)
}

// DefaultFetcher is the default Fetcher implementation
type DefaultFetcher struct {
	raw      httpclient.Client
	json     httpclient.Client
	maxTries uint
}

// Option configures a DefaultFetcher
type Option func(*DefaultFetcher)

// WithMaxTries sets the number of attempts per URL
func WithMaxTries(n uint) Option {
	return func(f *DefaultFetcher) {
		if n > 0 {
			f.maxTries = n
		}
	}
}

// WithTimeout sets the per-request timeout on both underlying clients
func WithTimeout(timeout time.Duration) Option {
	return func(f *DefaultFetcher) {
		f.raw = httpclient.NewDefaultClient(
			httpclient.WithAccept("text/plain"),
			httpclient.WithTimeout(timeout),
		)
		f.json = httpclient.NewDefaultClient(httpclient.WithTimeout(timeout))
	}
}

// WithClients replaces the underlying HTTP clients, mainly for testing
func WithClients(raw, json httpclient.Client) Option {
	return func(f *DefaultFetcher) {
		f.raw = raw
		f.json = json
	}
}

// NewDefaultFetcher creates a new default fetcher
func NewDefaultFetcher(opts ...Option) *DefaultFetcher {
	f := &DefaultFetcher{
		raw:      httpclient.NewDefaultClient(httpclient.WithAccept("text/plain")),
		json:     httpclient.NewDefaultClient(),
		maxTries: DefaultMaxTries,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the raw content of the given URL
func (f *DefaultFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, f.raw, url)
}

// FetchJSON retrieves the given URL requesting a JSON representation
func (f *DefaultFetcher) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, f.json, url)
}

func (f *DefaultFetcher) get(ctx context.Context, client httpclient.Client, url string) ([]byte, error) {
	operation := func() ([]byte, error) {
		data, err := client.Get(ctx, url)
		if err != nil {
			if !retryable(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return data, nil
	}
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(f.maxTries),
	)
}

// retryable reports whether a request may succeed on a later attempt.
// Server-side failures and throttling are retried; any other HTTP status is
// permanent. Transport-level errors are considered transient.
func retryable(err error) bool {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError ||
			httpErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
