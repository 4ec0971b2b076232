// Package config defines service configuration structures and loading.
//
// Conventions follow the rest of the codebase: defaults first, then an
// optional YAML file, then environment variables.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// FeedURL is the published spreadsheet TSV export.
	FeedURL string `koanf:"feed_url"`

	// DefaultCategory is assigned to rows without a category.
	DefaultCategory string `koanf:"default_category"`

	// DefaultCurrency is used when a row has no valid 3-letter code.
	DefaultCurrency string `koanf:"default_currency"`

	// DefaultRegion is assumed when a row lists no regions.
	DefaultRegion string `koanf:"default_region"`

	// BackfillEnabled toggles best-effort image backfill.
	BackfillEnabled bool `koanf:"backfill_enabled"`

	// BackfillConcurrency caps in-flight image lookups per request.
	BackfillConcurrency int `koanf:"backfill_concurrency"`

	// MaxListingLimit caps GET /api/deals?limit.
	MaxListingLimit int `koanf:"max_listing_limit"`

	// RedirectMaxHops caps the redirect chain followed by /api/click.
	RedirectMaxHops int `koanf:"redirect_max_hops"`

	// FetchTimeoutMS bounds a single upstream feed fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		FeedURL:             "",
		DefaultCategory:     "Other",
		DefaultCurrency:     "AUD",
		DefaultRegion:       "AU",
		BackfillEnabled:     true,
		BackfillConcurrency: 8,
		MaxListingLimit:     200,
		RedirectMaxHops:     4,
		FetchTimeoutMS:      10_000,
	}
}
