// Package app provides the listing service that implements the
// dependencies required by the HTTP API: it orchestrates feed fetch,
// parsing, normalization, image backfill and scoring into one pipeline.
package app

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ozdeals/dealboard/internal/adapters/backfill"
	"github.com/ozdeals/dealboard/internal/adapters/redirect"
	"github.com/ozdeals/dealboard/internal/adapters/source"
	"github.com/ozdeals/dealboard/internal/domain/feed"
	"github.com/ozdeals/dealboard/internal/domain/imagecache"
	"github.com/ozdeals/dealboard/internal/domain/model"
	"github.com/ozdeals/dealboard/internal/domain/scoring"
	"github.com/ozdeals/dealboard/pkg/logger"
	"github.com/ozdeals/dealboard/pkg/metrics"
)

// Service implements the deals listing pipeline. Every request recomputes
// from the current feed snapshot and wall clock; nothing is cached across
// requests, since recency, urgency and season all depend on "now".
type Service struct {
	mu sync.RWMutex

	// Core components, built on Start.
	source        source.Source
	normalizer    *feed.Normalizer
	backfillPool  *backfill.Pool
	imageResolver backfill.Resolver
	redirects     *redirect.Resolver

	// Configuration
	feedURL             string
	fetchTimeout        time.Duration
	defaultCategory     string
	defaultCurrency     string
	defaultRegion       string
	backfillEnabled     bool
	backfillConcurrency int
	redirectMaxHops     int

	// State
	started bool
	now     func() time.Time

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		fetchTimeout:        10 * time.Second,
		defaultCategory:     "Other",
		defaultCurrency:     "AUD",
		defaultRegion:       "AU",
		backfillEnabled:     true,
		backfillConcurrency: 8,
		redirectMaxHops:     4,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the pipeline components. Safe to call once; subsequent
// calls are no-ops.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.normalizer = feed.NewNormalizer(
		feed.WithDefaultCategory(s.defaultCategory),
		feed.WithDefaultCurrency(s.defaultCurrency),
		feed.WithDefaultRegion(s.defaultRegion),
	)
	if s.source == nil && s.feedURL != "" {
		s.source = source.NewSheetSource(s.feedURL, source.WithTimeout(s.fetchTimeout))
	}
	if s.imageResolver == nil {
		s.imageResolver = backfill.NewOGResolver()
	}
	s.backfillPool = backfill.NewPool(s.imageResolver,
		backfill.WithConcurrency(s.backfillConcurrency),
		backfill.WithLogger(s.logger.Named("backfill")),
	)
	if s.redirects == nil {
		s.redirects = redirect.NewResolver(redirect.WithMaxHops(s.redirectMaxHops))
	}

	s.started = true
	s.logger.Info(ctx, "listing service started",
		logger.String("feedConfigured", boolWord(s.source != nil)),
		logger.Int("backfillConcurrency", s.backfillConcurrency),
	)
	return nil
}

// Stop shuts the service down. The pipeline holds no background state, so
// this only flips the started flag.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "listing service stopped")
}

// Listing runs the pipeline once: fetch, parse, normalize, backfill.
// An upstream failure degrades to an empty listing, never an error; the
// surrounding application always renders a well-formed page.
func (s *Service) Listing(ctx context.Context) []model.Deal {
	start := time.Now()
	defer func() {
		metrics.ObserveListingDuration(float64(time.Since(start).Milliseconds()))
	}()

	if s.source == nil {
		s.logger.Warn(ctx, "no feed source configured; serving empty listing")
		return []model.Deal{}
	}

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Warn(ctx, "feed fetch failed; serving empty listing", logger.Error(err))
		metrics.UpdateListingSize(0)
		return []model.Deal{}
	}

	rows := feed.Parse(raw)
	metrics.AddRowsParsed(len(rows))

	now := s.now()
	deals := make([]model.Deal, 0, len(rows))
	for _, row := range rows {
		d, ok := s.normalizer.Normalize(row, now)
		if !ok {
			metrics.RecordRowDropped()
			continue
		}
		deals = append(deals, d)
	}

	if s.backfillEnabled && s.backfillPool != nil {
		// The cache lives for exactly one pipeline run.
		cache := imagecache.New(imagecache.WithMaxSize(len(deals) + 1))
		s.backfillPool.Fill(ctx, deals, cache)
	}

	metrics.UpdateListingSize(len(deals))
	return deals
}

// Ranked scores the current listing and orders it best-first. An empty
// season derives the season from the evaluation time.
func (s *Service) Ranked(ctx context.Context, season scoring.Season) []scoring.ScoredDeal {
	deals := s.Listing(ctx)
	now := s.now()
	engine := scoring.NewEngine(scoring.WithSeason(season))

	ranked := make([]scoring.ScoredDeal, len(deals))
	for i, d := range deals {
		r := engine.Score(d, now)
		ranked[i] = scoring.ScoredDeal{Deal: d, Score: r.Score, Facets: r.Facets}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// ResolveURL maps a deal id to its outbound URL using the same normalized
// listing the API serves. Exact id match first, then a loose contains
// match against deal URLs as a soft fallback for hand-edited links.
func (s *Service) ResolveURL(ctx context.Context, id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	deals := s.Listing(ctx)
	for _, d := range deals {
		if d.ID == id {
			return d.URL, true
		}
	}
	for _, d := range deals {
		if strings.Contains(d.URL, id) {
			return d.URL, true
		}
	}
	return "", false
}

// Redirect resolves an outbound URL to its final destination.
func (s *Service) Redirect(ctx context.Context, rawURL string) string {
	return s.redirects.Resolve(ctx, rawURL)
}

// ResolveImage finds a product image for a page URL, for the image proxy.
func (s *Service) ResolveImage(ctx context.Context, pageURL string) (string, error) {
	return s.imageResolver.Resolve(ctx, pageURL)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":             s.started,
		"feedConfigured":      s.source != nil,
		"backfillEnabled":     s.backfillEnabled,
		"backfillConcurrency": s.backfillConcurrency,
		"defaultCategory":     s.defaultCategory,
		"defaultCurrency":     s.defaultCurrency,
		"defaultRegion":       s.defaultRegion,
	}
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
