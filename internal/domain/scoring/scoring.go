// Package scoring computes the composite ranking score for a deal at a
// given evaluation time. Scoring is pure: the same deal, clock and season
// always produce the same result, and every facet stays inside [0,1].
package scoring

import (
	"strings"
	"time"

	"github.com/ozdeals/dealboard/internal/domain/model"
)

// Facet weights. They sum to exactly 1.0, which bounds the composite score
// to [0,1] for facets in [0,1].
const (
	weightDiscount    = 0.40
	weightRecency     = 0.15
	weightSeasonMatch = 0.20
	weightPopularity  = 0.15
	weightUrgency     = 0.10
)

const (
	// recencyWindow is the linear decay horizon for the recency facet.
	recencyWindow = 48 * time.Hour
	// urgencyWindow is the horizon beyond which an expiry adds no urgency.
	urgencyWindow = 7 * 24 * time.Hour
	// popularityCeiling is the raw popularity that maps to a full facet.
	popularityCeiling = 100
)

// Season is one of the four fixed calendar buckets used to boost deals
// tagged for the current season.
type Season string

// Southern-hemisphere seasons.
const (
	Summer Season = "Summer"
	Autumn Season = "Autumn"
	Winter Season = "Winter"
	Spring Season = "Spring"
)

// Facets holds the per-facet breakdown of a composite score.
type Facets struct {
	Discount    float64 `json:"discount"`
	Recency     float64 `json:"recency"`
	SeasonMatch float64 `json:"seasonMatch"`
	Popularity  float64 `json:"popularity"`
	Urgency     float64 `json:"urgency"`
}

// Result is the composite score plus its breakdown. Results are derived,
// never cached: recency, urgency and season are functions of "now".
type Result struct {
	Score  float64 `json:"score"`
	Facets Facets  `json:"facets"`
}

// Engine scores deals. The zero configuration derives the season from the
// evaluation time; WithSeason pins it instead.
type Engine struct {
	season Season
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSeason pins the season instead of deriving it from the clock.
func WithSeason(s Season) Option {
	return func(e *Engine) {
		if s != "" {
			e.season = s
		}
	}
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the composite score for a deal at the given time.
func (e *Engine) Score(d model.Deal, now time.Time) Result {
	season := e.season
	if season == "" {
		season = SeasonOf(now)
	}

	f := Facets{
		Discount:    discountFacet(d),
		Recency:     recencyFacet(d, now),
		SeasonMatch: seasonFacet(d, season),
		Popularity:  clamp01(d.Popularity / popularityCeiling),
		Urgency:     urgencyFacet(d, now),
	}
	score := weightDiscount*f.Discount +
		weightRecency*f.Recency +
		weightSeasonMatch*f.SeasonMatch +
		weightPopularity*f.Popularity +
		weightUrgency*f.Urgency

	return Result{Score: score, Facets: f}
}

// discountFacet measures the relative saving. A zero baseline is defined
// to be no discount, never a division by zero.
func discountFacet(d model.Deal) float64 {
	if d.OriginalPrice <= 0 {
		return 0
	}
	return clamp01((d.OriginalPrice - d.Price) / d.OriginalPrice)
}

// recencyFacet decays linearly from 1 to 0 over the recency window.
// Clock skew (updatedAt in the future) floors at zero hours.
func recencyFacet(d model.Deal, now time.Time) float64 {
	t, err := time.Parse(time.RFC3339, d.UpdatedAt)
	if err != nil {
		return 0
	}
	hours := now.Sub(t).Hours()
	if hours < 0 {
		hours = 0
	}
	return clamp01(1 - hours/recencyWindow.Hours())
}

// seasonFacet is 1 when any tag mentions the season, else 0.
func seasonFacet(d model.Deal, season Season) float64 {
	needle := strings.ToLower(string(season))
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return 1
		}
	}
	return 0
}

// urgencyFacet rises as the expiry approaches: a deal ending now or already
// ended scores 1, one ending at or beyond the urgency window scores 0.
// Deals without an expiry carry no urgency.
func urgencyFacet(d model.Deal, now time.Time) float64 {
	if d.EndsAt == "" {
		return 0
	}
	end, err := time.Parse(time.RFC3339, d.EndsAt)
	if err != nil {
		return 0
	}
	until := end.Sub(now)
	if until < 0 {
		until = 0
	}
	return clamp01(1 - float64(until)/float64(urgencyWindow))
}

// SeasonOf maps a time to its Southern-hemisphere season. This is a fixed
// calendar rule, not configuration.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return Summer
	case time.March, time.April, time.May:
		return Autumn
	case time.June, time.July, time.August:
		return Winter
	default:
		return Spring
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
