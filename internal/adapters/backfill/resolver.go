// Package backfill resolves a best-effort product image for deals whose
// feed row left the image column empty. Resolution scrapes the product
// page for social metas, JSON-LD product data, and plausible inline
// images, in that order. Everything here is best-effort: a failed lookup
// leaves the image empty and never affects any other deal.
package backfill

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	defaultResolveTimeout = 8 * time.Second
	maxPageBytes          = 2 << 20

	// Some retailers serve different markup to unidentified clients.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"
)

var (
	imageExtRe = regexp.MustCompile(`(?i)\.(avif|webp|png|jpe?g|gif)(?:[?#]|$)`)
	logoPathRe = regexp.MustCompile(`(?i)(^|/)(logo|brand|sprite|placeholder|icon|badge)([-_./])`)
	faviconRe  = regexp.MustCompile(`(?i)apple-touch-icon|favicon`)
)

// metaSelectors are tried in order; the first non-logoish hit wins.
var metaSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image:secure_url"]`, "content"},
	{`meta[property="og:image"]`, "content"},
	{`meta[name="og:image"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`meta[name="twitter:image:src"]`, "content"},
	{`link[rel="image_src"]`, "href"},
}

// Resolver finds a product image URL for a product page URL.
type Resolver interface {
	Resolve(ctx context.Context, pageURL string) (string, error)
}

// OGResolver implements Resolver by scraping the product page.
type OGResolver struct {
	client *retryablehttp.Client
}

// NewOGResolver creates a page-scraping resolver with configuration
// options. Lookups are single-shot; the contract is "leave image empty on
// failure", not retry.
func NewOGResolver(opts ...ResolverOption) *OGResolver {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.HTTPClient.Timeout = defaultResolveTimeout

	r := &OGResolver{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches the page and returns an absolute image URL, or
// ErrNoImage when the page yields no usable candidate.
func (r *OGResolver) Resolve(ctx context.Context, pageURL string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: status %d", ErrPageFetch, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	if img := metaImage(doc, pageURL); img != "" {
		return img, nil
	}
	if img := jsonLDImage(doc, pageURL); img != "" {
		return img, nil
	}
	if img := inlineImage(doc, pageURL); img != "" {
		return img, nil
	}
	return "", ErrNoImage
}

// metaImage checks the social-share metas.
func metaImage(doc *goquery.Document, base string) string {
	for _, ms := range metaSelectors {
		if v, ok := doc.Find(ms.selector).First().Attr(ms.attr); ok {
			if candidate := absoluteURL(base, v); candidate != "" && !isLogoish(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// jsonLDImage pulls the image out of embedded JSON-LD product data. The
// image value may be a string, an array, or an ImageObject.
func jsonLDImage(doc *goquery.Document, base string) string {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		img := gjson.Get(s.Text(), "image")
		if !img.Exists() {
			img = gjson.Get(s.Text(), "@graph.#.image|0")
		}
		candidate := jsonLDValue(img)
		if candidate = absoluteURL(base, candidate); candidate != "" && !isLogoish(candidate) {
			found = candidate
			return false
		}
		return true
	})
	return found
}

func jsonLDValue(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.String()
	case v.IsArray():
		if arr := v.Array(); len(arr) > 0 {
			return jsonLDValue(arr[0])
		}
	case v.IsObject():
		return v.Get("url").String()
	}
	return ""
}

// inlineImage falls back to the first <img> with a product-looking
// extension.
func inlineImage(doc *goquery.Document, base string) string {
	var found string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok {
			return true
		}
		candidate := absoluteURL(base, src)
		if candidate != "" && imageExtRe.MatchString(candidate) && !isLogoish(candidate) {
			found = candidate
			return false
		}
		return true
	})
	return found
}

// isLogoish filters out logos, favicons and sprites that would otherwise
// masquerade as product shots.
func isLogoish(u string) bool {
	s := strings.ToLower(u)
	return strings.HasSuffix(s, ".svg") || logoPathRe.MatchString(s) || faviconRe.MatchString(s)
}

// absoluteURL resolves a possibly-relative candidate against the page URL.
func absoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}
