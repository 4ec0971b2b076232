package app

import (
	"time"

	"github.com/ozdeals/dealboard/internal/adapters/backfill"
	"github.com/ozdeals/dealboard/internal/adapters/redirect"
	"github.com/ozdeals/dealboard/internal/adapters/source"
	"github.com/ozdeals/dealboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFeedURL sets the upstream feed URL the default source fetches.
func WithFeedURL(url string) Option {
	return func(s *Service) {
		s.feedURL = url
	}
}

// WithSource injects a feed source, replacing the default sheet source.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithFetchTimeout bounds a single feed fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithDefaultCategory sets the fallback category for uncategorized rows.
func WithDefaultCategory(category string) Option {
	return func(s *Service) {
		if category != "" {
			s.defaultCategory = category
		}
	}
}

// WithDefaultCurrency sets the fallback currency code.
func WithDefaultCurrency(currency string) Option {
	return func(s *Service) {
		if currency != "" {
			s.defaultCurrency = currency
		}
	}
}

// WithDefaultRegion sets the region assumed when a row lists none.
func WithDefaultRegion(region string) Option {
	return func(s *Service) {
		if region != "" {
			s.defaultRegion = region
		}
	}
}

// WithBackfill toggles best-effort image backfill.
func WithBackfill(enabled bool) Option {
	return func(s *Service) {
		s.backfillEnabled = enabled
	}
}

// WithBackfillConcurrency caps in-flight image lookups per request.
func WithBackfillConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.backfillConcurrency = n
		}
	}
}

// WithImageResolver injects an image resolver. Mainly for tests.
func WithImageResolver(r backfill.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.imageResolver = r
		}
	}
}

// WithRedirectResolver injects a redirect resolver. Mainly for tests.
func WithRedirectResolver(r *redirect.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.redirects = r
		}
	}
}

// WithRedirectMaxHops caps the redirect chain for outbound clicks.
func WithRedirectMaxHops(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.redirectMaxHops = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock. Mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
