package api

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ozdeals/dealboard/internal/domain/model"
	"github.com/ozdeals/dealboard/pkg/logger"
)

const (
	// imageFetchTimeout bounds one upstream image download.
	imageFetchTimeout = 8 * time.Second

	// maxImageBytes caps a proxied image body.
	maxImageBytes = 8 << 20

	imageUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// ImageHandler resolves and proxies product images. Retailer CDNs often
// reject hotlinked requests, so images are fetched server-side with a
// browser user agent and, on refusal, retried with the product page as
// referer.
type ImageHandler struct {
	deps   Dependencies
	client *http.Client
}

// NewImageHandler creates an image handler.
func NewImageHandler(deps Dependencies) *ImageHandler {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 1
	rc.Logger = nil
	rc.HTTPClient.Timeout = imageFetchTimeout
	return &ImageHandler{deps: deps, client: rc.StandardClient()}
}

// HandleImage handles GET /api/og-image requests.
//
// Query parameters: image (a direct image URL to proxy) or url (a product
// page whose image is discovered first). base optionally overrides the
// referer sent on the retry fetch. Failures answer 404 with a plain
// "no-image" body so <img> consumers fall through to their placeholder.
func (h *ImageHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	pageURL := q.Get("url")
	imageURL := q.Get("image")

	if imageURL == "" {
		if !model.IsAbsoluteHTTP(pageURL) {
			writeNoImage(w)
			return
		}
		resolved, err := h.deps.ResolveImage(r.Context(), pageURL)
		if err != nil {
			writeNoImage(w)
			return
		}
		imageURL = resolved
	}
	if !model.IsAbsoluteHTTP(imageURL) {
		writeNoImage(w)
		return
	}

	referer := q.Get("base")
	if referer == "" {
		referer = pageURL
	}
	if referer == "" {
		referer = originOf(imageURL)
	}

	body, contentType, err := h.fetchBytes(r, imageURL, referer)
	if err != nil {
		logger.Get().Debug(r.Context(), "image proxy fetch failed",
			logger.String("image", imageURL), logger.Error(err))
		writeNoImage(w)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; img-src 'self'")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// fetchBytes downloads an image, first without a referer, then once more
// with one when the host refuses the anonymous fetch.
func (h *ImageHandler) fetchBytes(r *http.Request, imageURL, referer string) ([]byte, string, error) {
	body, contentType, err := h.fetchOnce(r, imageURL, "")
	if err == nil {
		return body, contentType, nil
	}
	if referer != "" {
		return h.fetchOnce(r, imageURL, referer)
	}
	return nil, "", err
}

func (h *ImageHandler) fetchOnce(r *http.Request, imageURL, referer string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", imageUserAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/*,*/*;q=0.8")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", ErrNoImage
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return body, contentType, nil
}

func writeNoImage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("no-image"))
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}
