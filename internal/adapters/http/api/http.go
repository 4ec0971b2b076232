// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ozdeals/dealboard/internal/domain/scoring"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Ranked returns the current listing ordered best-first. An empty
	// season derives it from the evaluation time.
	Ranked(ctx context.Context, season scoring.Season) []scoring.ScoredDeal

	// ResolveURL maps a deal id to its outbound URL.
	ResolveURL(ctx context.Context, id string) (string, bool)

	// Redirect resolves an outbound URL to its final destination.
	Redirect(ctx context.Context, rawURL string) string

	// ResolveImage finds a product image for a product page URL.
	ResolveImage(ctx context.Context, pageURL string) (string, error)
}

// ScoredDeal mirrors the listing element shape returned to consumers.
type ScoredDeal = scoring.ScoredDeal

// Server wires HTTP routes for the public API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	dealsHandler  *DealsHandler
	clickHandler  *ClickHandler
	imageHandler  *ImageHandler
}

// NewServer creates an API server with all handlers. maxLimit caps the
// listing limit query parameter.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		dealsHandler:  NewDealsHandler(deps, maxLimit),
		clickHandler:  NewClickHandler(deps),
		imageHandler:  NewImageHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/deals", MetricsMiddleware(s.dealsHandler.HandleGetDeals, "deals"))
	mux.HandleFunc("/api/click", MetricsMiddleware(s.clickHandler.HandleClick, "click"))
	mux.HandleFunc("/api/og-image", MetricsMiddleware(s.imageHandler.HandleImage, "og_image"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// setNoCache marks a response as uncacheable. Listings and redirects are
// recomputed per request; a cached copy would pin stale scores or targets.
func setNoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}
