package feed

import "strings"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithDefaultCategory sets the category assigned to rows without one.
func WithDefaultCategory(category string) Option {
	return func(n *Normalizer) {
		if category != "" {
			n.defaultCategory = category
		}
	}
}

// WithDefaultCurrency sets the currency used when a row carries no valid
// 3-letter code.
func WithDefaultCurrency(currency string) Option {
	return func(n *Normalizer) {
		if len(currency) == 3 {
			n.defaultCurrency = strings.ToUpper(currency)
		}
	}
}

// WithDefaultRegion sets the region assumed when a row lists none.
func WithDefaultRegion(region string) Option {
	return func(n *Normalizer) {
		if region != "" {
			n.defaultRegion = region
		}
	}
}
