package source

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Option applies a configuration option to the SheetSource.
type Option func(*SheetSource)

// WithClient replaces the HTTP client. Mainly for tests.
func WithClient(client *retryablehttp.Client) Option {
	return func(s *SheetSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds a single feed fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *SheetSource) {
		if d > 0 {
			s.client.HTTPClient.Timeout = d
		}
	}
}
