// Package metrics provides Prometheus metrics for the dealboard service.
// A custom registry keeps the scrape surface limited to the metrics below.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Feed pipeline
	feedFetches     prometheus.Counter
	feedFetchErrors prometheus.Counter
	rowsParsed      prometheus.Counter
	rowsDropped     prometheus.Counter
	listingSize     prometheus.Gauge
	listingDuration prometheus.Histogram

	// Image backfill
	backfillHits      prometheus.Counter
	backfillMisses    prometheus.Counter
	backfillErrors    prometheus.Counter
	backfillCacheHits prometheus.Counter

	// Outbound redirects
	redirectResolutions prometheus.Counter
	redirectFallbacks   prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByComponent   *prometheus.CounterVec
}

// Global manager on a custom registry, so default Go collectors stay out
// of the scrape.
var (
	globalManager  *Manager                                       //nolint:gochecknoglobals // singleton metrics manager
	customRegistry = prometheus.NewRegistry()                     //nolint:gochecknoglobals // singleton registry
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dealboard",
		subsystem:        "listing",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.feedFetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_fetches_total",
		Help:      "Total number of successful upstream feed fetches",
	})
	m.feedFetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_fetch_errors_total",
		Help:      "Total number of failed upstream feed fetches",
	})
	m.rowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_parsed_total",
		Help:      "Total number of raw feed rows parsed",
	})
	m.rowsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_dropped_total",
		Help:      "Total number of rows rejected during normalization",
	})
	m.listingSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "size",
		Help:      "Number of deals in the most recent listing",
	})
	m.listingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_duration_milliseconds",
		Help:      "Histogram of end-to-end listing pipeline duration",
		Buckets:   m.histogramBuckets,
	})

	m.backfillHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backfill_hits_total",
		Help:      "Total number of deals whose image was backfilled",
	})
	m.backfillMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backfill_misses_total",
		Help:      "Total number of backfill lookups that found no image",
	})
	m.backfillErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backfill_errors_total",
		Help:      "Total number of backfill lookups that failed outright",
	})
	m.backfillCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backfill_cache_hits_total",
		Help:      "Total number of backfill lookups served by the request cache",
	})

	m.redirectResolutions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "redirect_resolutions_total",
		Help:      "Total number of outbound redirects resolved",
	})
	m.redirectFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "redirect_fallbacks_total",
		Help:      "Total number of redirects that fell back to the home location",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration by endpoint and method",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})
	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Total errors by component and reason",
	}, []string{"component", "reason"})
}

// GetRegistry returns the registry served from the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers on the global manager.

func RecordFeedFetch()      { globalManager.feedFetches.Inc() }
func RecordFeedFetchError() { globalManager.feedFetchErrors.Inc() }

// AddRowsParsed records the number of raw rows produced by one parse.
func AddRowsParsed(n int) { globalManager.rowsParsed.Add(float64(n)) }

// RecordRowDropped counts a row rejected during normalization.
func RecordRowDropped() { globalManager.rowsDropped.Inc() }

// UpdateListingSize records the size of the most recent listing.
func UpdateListingSize(n int) { globalManager.listingSize.Set(float64(n)) }

// ObserveListingDuration records one pipeline run duration in ms.
func ObserveListingDuration(ms float64) { globalManager.listingDuration.Observe(ms) }

func RecordBackfillHit()      { globalManager.backfillHits.Inc() }
func RecordBackfillMiss()     { globalManager.backfillMisses.Inc() }
func RecordBackfillError()    { globalManager.backfillErrors.Inc() }
func RecordBackfillCacheHit() { globalManager.backfillCacheHits.Inc() }

func RecordRedirectResolution() { globalManager.redirectResolutions.Inc() }
func RecordRedirectFallback()   { globalManager.redirectFallbacks.Inc() }

// RecordHTTPRequest counts one request on the public surface.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records one request duration in ms.
func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

// RecordErrorByComponent counts an error attributed to a component.
func RecordErrorByComponent(component, reason string) {
	globalManager.errorsByComponent.WithLabelValues(component, reason).Inc()
}
