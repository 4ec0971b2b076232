package feed

import (
	"strings"
	"time"

	"github.com/ozdeals/dealboard/internal/domain/model"
)

// Accepted timestamp layouts for endsAt/updatedAt cells. Values are
// rewritten to RFC3339 so downstream scoring never re-parses dialects.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer assembles canonical deals from raw feed rows, applying the
// configured fallbacks for category, currency and region.
type Normalizer struct {
	defaultCategory string
	defaultCurrency string
	defaultRegion   string
}

// NewNormalizer creates a Normalizer with configuration options.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		defaultCategory: "Other",
		defaultCurrency: "AUD",
		defaultRegion:   "AU",
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts one raw row into a validated Deal. The second return
// is false when the row fails a construction invariant; such rows are
// excluded from the listing, never surfaced as errors.
func (n *Normalizer) Normalize(row RawRow, now time.Time) (model.Deal, bool) {
	title := row.Get(FieldTitle)
	retailer := row.Get(FieldRetailer)
	rawURL := SanitizeURL(row.Get(FieldURL))

	price := Number(row.Get(FieldPrice))
	original := Number(row.Get(FieldOriginalPrice))
	// A missing or understated baseline collapses to the sale price, so
	// originalPrice >= price holds for every deal that survives (the
	// discount facet reads 0 rather than the row being rejected).
	if original < price {
		original = price
	}

	id := row.Get(FieldID)
	if id == "" && retailer != "" && title != "" && rawURL != "" {
		id = model.SynthesizeID(retailer, title, rawURL)
	}

	category := row.Get(FieldCategory)
	if category == "" {
		category = n.defaultCategory
	}

	currency := strings.ToUpper(row.Get(FieldCurrency))
	if len(currency) != 3 {
		currency = n.defaultCurrency
	}

	regions := dedupe(List(row.Get(FieldRegions)))
	if len(regions) == 0 {
		regions = []string{n.defaultRegion}
	}

	updatedAt, ok := canonicalTime(row.Get(FieldUpdatedAt))
	if !ok {
		updatedAt = now.UTC().Format(time.RFC3339)
	}
	// Unparseable expiry means no expiry; the urgency facet reads 0.
	endsAt, _ := canonicalTime(row.Get(FieldEndsAt))

	d := model.Deal{
		ID:            id,
		Title:         title,
		Retailer:      retailer,
		Category:      category,
		URL:           rawURL,
		Image:         SanitizeURL(row.Get(FieldImage)),
		Price:         price,
		OriginalPrice: original,
		Currency:      currency,
		Tags:          List(row.Get(FieldTags)),
		Regions:       regions,
		Popularity:    Number(row.Get(FieldPopularity)),
		EndsAt:        endsAt,
		UpdatedAt:     updatedAt,
	}
	if !d.Valid() {
		return model.Deal{}, false
	}
	return d, true
}

// canonicalTime parses a timestamp cell against the accepted layouts and
// returns it re-encoded as RFC3339 UTC.
func canonicalTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339), true
		}
	}
	return "", false
}

// dedupe removes repeated entries while preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		key := strings.ToUpper(v)
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}
