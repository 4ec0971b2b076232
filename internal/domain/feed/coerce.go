package feed

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumericRe = regexp.MustCompile(`[^0-9.]`)
	listSplitRe  = regexp.MustCompile(`[;,]`)
	zeroWidthRe  = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]`)
	htmlAmpRe    = regexp.MustCompile(`(?i)&amp;`)
	schemeRe     = regexp.MustCompile(`(?i)^https?://`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Number coerces a raw cell into a float64. Currency symbols, thousands
// separators and units are stripped; anything that still fails to parse as
// a finite number yields 0.
func Number(s string) float64 {
	s = nonNumericRe.ReplaceAllString(s, "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// List splits a delimiter-separated cell on commas or semicolons, trimming
// each piece and dropping empties. Empty input yields an empty slice.
func List(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := listSplitRe.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SanitizeURL cleans a URL cell pasted from a spreadsheet: zero-width
// characters are removed, HTML-encoded ampersands decoded, a missing scheme
// becomes https, and literal spaces are percent-encoded. Idempotent:
// sanitizing an already-sanitized URL returns it unchanged.
func SanitizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u := zeroWidthRe.ReplaceAllString(raw, "")
	// Decode to a fixpoint so nested encodings like &amp;amp; cannot
	// break idempotency. Each pass strictly shrinks the string.
	for htmlAmpRe.MatchString(u) {
		u = htmlAmpRe.ReplaceAllString(u, "&")
	}
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if !schemeRe.MatchString(u) {
		u = "https://" + u
	}
	return whitespaceRe.ReplaceAllString(u, "%20")
}
