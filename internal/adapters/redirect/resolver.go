// Package redirect resolves a deal's outbound URL to its final
// destination: affiliate shorteners are followed hop by hop, dead product
// pages fall back to their canonical URL, and anything still broken lands
// on the retailer's home page. Resolution is best-effort and never errors;
// the worst outcome is a less specific destination.
package redirect

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultMaxHops = 4
	defaultTimeout = 6 * time.Second

	// lastResortURL is used when even the domain cannot be parsed.
	lastResortURL = "https://www.google.com"
)

// Resolver follows redirect chains manually so each Location header can be
// inspected and resolved against its base.
type Resolver struct {
	client  *http.Client
	maxHops int
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithMaxHops caps the number of redirect hops followed.
func WithMaxHops(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxHops = n
		}
	}
}

// WithHTTPClient replaces the HTTP client. The client must not follow
// redirects itself. Mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// NewResolver creates a redirect resolver with configuration options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxHops: defaultMaxHops,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the best destination for rawURL. It never fails: when
// the chain cannot be verified the domain home page is returned instead.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	current := rawURL
	for i := 0; i < r.maxHops; i++ {
		code, location := r.headStatus(ctx, current)
		if code >= http.StatusMultipleChoices && code < http.StatusBadRequest && location != "" {
			current = resolveRef(current, location)
			continue
		}
		break
	}

	if canon := r.canonicalIf404(ctx, current); canon != "" {
		current = canon
	}

	if code, _ := r.headStatus(ctx, current); code < http.StatusOK || code >= http.StatusBadRequest {
		current = domainHome(current)
	}
	return current
}

// headStatus probes a URL without following redirects. Transport failures
// report status 0.
func (r *Resolver) headStatus(ctx context.Context, u string) (int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return 0, ""
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, ""
	}
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Location")
}

// canonicalIf404 scrapes rel=canonical / og:url from a 404 page. Retailers
// often 404 expired deep links while the canonical product page lives on.
func (r *Resolver) canonicalIf404(ctx context.Context, u string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ""
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && href != "" {
		return resolveRef(u, href)
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok && content != "" {
		return resolveRef(u, content)
	}
	return ""
}

// resolveRef makes a possibly-relative Location absolute against its base.
func resolveRef(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// domainHome strips a URL down to its scheme and host.
func domainHome(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return lastResortURL
	}
	parsed.Path = "/"
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}
