package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/ozdeals/dealboard/internal/domain/scoring"
)

// DealsHandler serves the ranked, filterable deals listing.
type DealsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewDealsHandler creates a deals handler.
func NewDealsHandler(deps Dependencies, maxLimit int) *DealsHandler {
	return &DealsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetDeals handles GET /api/deals requests.
//
// Query parameters: limit (capped), category, region, season (override),
// sort (score|price|discount, default score). The body is a bare JSON
// array; consumers accept either a bare list or {"deals": [...]}.
func (h *DealsHandler) HandleGetDeals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	season, ok := parseSeason(q.Get("season"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadSeason)
		return
	}

	limit := 0
	if limitStr := q.Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if h.maxLimit > 0 && n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
			return
		}
		limit = n
	}

	deals := h.deps.Ranked(r.Context(), season)
	deals = filterDeals(deals, q.Get("category"), q.Get("region"))
	sortDeals(deals, q.Get("sort"))
	if limit > 0 && limit < len(deals) {
		deals = deals[:limit]
	}

	setNoCache(w)
	writeJSON(w, http.StatusOK, deals)
}

// parseSeason validates the season override. Empty means "derive from
// now"; anything else must name one of the four seasons.
func parseSeason(s string) (scoring.Season, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", true
	case "summer":
		return scoring.Summer, true
	case "autumn":
		return scoring.Autumn, true
	case "winter":
		return scoring.Winter, true
	case "spring":
		return scoring.Spring, true
	default:
		return "", false
	}
}

func filterDeals(deals []ScoredDeal, category, region string) []ScoredDeal {
	if category == "" && region == "" {
		return deals
	}
	out := make([]ScoredDeal, 0, len(deals))
	for _, d := range deals {
		if category != "" && !strings.EqualFold(d.Category, category) {
			continue
		}
		if region != "" && !hasRegion(d.Regions, region) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func hasRegion(regions []string, region string) bool {
	for _, r := range regions {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}

// sortDeals reorders an already score-ranked listing. Unknown sort keys
// keep the default order.
func sortDeals(deals []ScoredDeal, key string) {
	switch strings.ToLower(key) {
	case "price":
		sort.SliceStable(deals, func(i, j int) bool { return deals[i].Price < deals[j].Price })
	case "discount":
		sort.SliceStable(deals, func(i, j int) bool { return deals[i].Facets.Discount > deals[j].Facets.Discount })
	}
}
