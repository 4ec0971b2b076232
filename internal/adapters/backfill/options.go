package backfill

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ResolverOption applies a configuration option to the OGResolver.
type ResolverOption func(*OGResolver)

// WithClient replaces the HTTP client. Mainly for tests.
func WithClient(client *retryablehttp.Client) ResolverOption {
	return func(r *OGResolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithResolveTimeout bounds a single page fetch.
func WithResolveTimeout(d time.Duration) ResolverOption {
	return func(r *OGResolver) {
		if d > 0 {
			r.client.HTTPClient.Timeout = d
		}
	}
}
