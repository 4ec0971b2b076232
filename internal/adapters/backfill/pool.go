package backfill

import (
	"context"
	"errors"
	"sync"

	"github.com/ozdeals/dealboard/internal/domain/imagecache"
	"github.com/ozdeals/dealboard/internal/domain/model"
	"github.com/ozdeals/dealboard/pkg/logger"
	"github.com/ozdeals/dealboard/pkg/metrics"
)

const defaultConcurrency = 8

// Pool fills missing deal images with bounded concurrency: one outstanding
// lookup per deal, capped overall, with no ordering between deals. A
// failure for one deal never affects another's presence or score.
type Pool struct {
	resolver    Resolver
	concurrency int
	logger      logger.Logger
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithConcurrency caps the number of in-flight lookups.
func WithConcurrency(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a backfill pool around a resolver.
func NewPool(resolver Resolver, opts ...PoolOption) *Pool {
	p := &Pool{
		resolver:    resolver,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fill backfills images in place for every deal missing one, memoizing
// lookups through the request-scoped cache. Fill returns when all lookups
// finish; callers discard the cache afterwards.
func (p *Pool) Fill(ctx context.Context, deals []model.Deal, cache imagecache.Cache) {
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i := range deals {
		if deals[i].Image != "" || deals[i].URL == "" {
			continue
		}
		wg.Add(1)
		go func(d *model.Deal) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			p.fillOne(ctx, d, cache)
		}(&deals[i])
	}
	wg.Wait()
}

func (p *Pool) fillOne(ctx context.Context, d *model.Deal, cache imagecache.Cache) {
	if img, ok := cache.Get(ctx, d.URL); ok {
		if img != "" {
			d.Image = img
		}
		metrics.RecordBackfillCacheHit()
		return
	}

	img, err := p.resolver.Resolve(ctx, d.URL)
	if err != nil {
		// Negative entry: the same page is not fetched again this run.
		cache.Put(ctx, d.URL, "")
		if errors.Is(err, ErrNoImage) {
			metrics.RecordBackfillMiss()
		} else {
			metrics.RecordBackfillError()
		}
		if p.logger != nil {
			p.logger.Debug(ctx, "image backfill failed",
				logger.String("dealID", d.ID),
				logger.Error(err),
			)
		}
		return
	}

	cache.Put(ctx, d.URL, img)
	d.Image = img
	metrics.RecordBackfillHit()
}
