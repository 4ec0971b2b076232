// Package model contains domain models passed between layers.
package model

import (
	"net/url"
	"strings"
)

// Maximum length of a synthesized deal id. Keeps ids usable as stable keys
// in query strings and logs.
const maxSyntheticIDLength = 200

// Deal is the canonical, validated representation of one retailer offer.
// JSON field names mirror the public listing contract.
type Deal struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Retailer      string   `json:"retailer"`
	Category      string   `json:"category"`
	URL           string   `json:"url"`
	Image         string   `json:"image,omitempty"` // empty means "needs backfill"
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Currency      string   `json:"currency"`
	Tags          []string `json:"tags"`
	Regions       []string `json:"regions"`
	Popularity    float64  `json:"popularity"`
	EndsAt        string   `json:"endsAt,omitempty"` // RFC3339; empty means no expiry
	UpdatedAt     string   `json:"updatedAt"`        // RFC3339
}

// Valid reports whether the deal satisfies the construction invariants:
// non-empty id, title and retailer, an absolute http(s) URL, and a
// positive price. Rows failing any of these are dropped by the pipeline.
func (d Deal) Valid() bool {
	if d.ID == "" || d.Title == "" || d.Retailer == "" {
		return false
	}
	if !IsAbsoluteHTTP(d.URL) {
		return false
	}
	return d.Price > 0
}

// IsAbsoluteHTTP reports whether s parses as an absolute http or https URL.
func IsAbsoluteHTTP(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// SynthesizeID builds a deterministic fallback id from retailer, title and
// URL when the feed omits one. Two rows with identical retailer+title+url
// collide; that is an accepted limitation rather than a de-duplication rule.
func SynthesizeID(retailer, title, rawURL string) string {
	joined := strings.Join([]string{retailer, title, rawURL}, "-")
	id := strings.Join(strings.Fields(joined), "-")
	if len(id) > maxSyntheticIDLength {
		id = id[:maxSyntheticIDLength]
	}
	return id
}
