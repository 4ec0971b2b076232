package api

import (
	"net/http"
	"strings"

	"github.com/ozdeals/dealboard/internal/domain/feed"
	"github.com/ozdeals/dealboard/internal/domain/model"
	"github.com/ozdeals/dealboard/pkg/metrics"
)

// ClickHandler redirects outbound clicks to their live destination.
type ClickHandler struct {
	deps Dependencies
}

// NewClickHandler creates a click handler.
func NewClickHandler(deps Dependencies) *ClickHandler {
	return &ClickHandler{deps: deps}
}

// HandleClick handles GET /api/click requests.
//
// Accepts either url (an outbound URL, sanitized before use) or id (a deal
// id resolved against the current listing). The response is always a 302:
// to the resolved destination when one is found, to the site root when not.
// A click must land somewhere even when the listing or the target is gone.
func (h *ClickHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	target := feed.SanitizeURL(q.Get("url"))
	if target == "" {
		if id := strings.TrimSpace(q.Get("id")); id != "" {
			if u, ok := h.deps.ResolveURL(r.Context(), id); ok {
				target = u
			}
		}
	}
	if !model.IsAbsoluteHTTP(target) {
		metrics.RecordRedirectFallback()
		setNoCache(w)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	final := h.deps.Redirect(r.Context(), target)
	metrics.RecordRedirectResolution()
	setNoCache(w)
	http.Redirect(w, r, final, http.StatusFound)
}
