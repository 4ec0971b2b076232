// Package source fetches the raw deals feed. The upstream is a published
// spreadsheet export serving tab-delimited text; this package treats it as
// an opaque text document and leaves all interpretation to the feed parser.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ozdeals/dealboard/pkg/metrics"
)

const (
	defaultFetchTimeout = 10 * time.Second
	// maxFeedBytes caps the response body; the feed is tens to a few
	// hundred rows, so anything near this size is upstream misbehavior.
	maxFeedBytes = 4 << 20
)

// Source returns the raw feed text for one pipeline run.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// SheetSource fetches the TSV export over HTTP. Fetches are never retried:
// an unreachable feed degrades the listing to empty rather than delaying
// the request.
type SheetSource struct {
	url    string
	client *retryablehttp.Client
}

// NewSheetSource creates a sheet source with configuration options.
func NewSheetSource(feedURL string, opts ...Option) *SheetSource {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.HTTPClient.Timeout = defaultFetchTimeout

	s := &SheetSource{
		url:    feedURL,
		client: client,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads the current feed snapshot. A cache-busting parameter and
// no-store headers keep intermediaries from serving a stale export.
func (s *SheetSource) Fetch(ctx context.Context) (string, error) {
	sep := "?"
	if strings.Contains(s.url, "?") {
		sep = "&"
	}
	u := s.url + sep + "cb=" + strconv.FormatInt(time.Now().UnixMilli(), 10)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordFeedFetchError()
		return "", fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordFeedFetchError()
		return "", fmt.Errorf("%w: status %d", ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		metrics.RecordFeedFetchError()
		return "", fmt.Errorf("read feed body: %w", err)
	}

	metrics.RecordFeedFetch()
	return string(body), nil
}
