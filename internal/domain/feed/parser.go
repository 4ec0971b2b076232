// Package feed turns the raw spreadsheet export into canonical deal records.
//
// The upstream feed is a published-spreadsheet TSV export maintained by
// operators, so the parser is deliberately forgiving: header spellings vary,
// rows come up short, and cells carry stray whitespace and control
// characters. Parsing is total; malformed input degrades to fewer rows,
// never to an error.
package feed

import "strings"

// Field enumerates the canonical columns of the upstream feed.
type Field int

// Canonical fields, in the assumed column order used when the first line
// carries no recognizable header.
const (
	FieldID Field = iota
	FieldTitle
	FieldRetailer
	FieldCategory
	FieldURL
	FieldImage
	FieldPrice
	FieldOriginalPrice
	FieldCurrency
	FieldTags
	FieldRegions
	FieldPopularity
	FieldEndsAt
	FieldUpdatedAt
	fieldCount
)

// fieldAliases maps each canonical field to the accepted header spellings,
// already in normalized form (lower case, alphanumerics only). The first
// entry is the canonical name used for synthesized headers.
var fieldAliases = [fieldCount][]string{
	FieldID:            {"id", "dealid", "sku", "key", "uid"},
	FieldTitle:         {"title", "name", "product", "productname", "dealtitle"},
	FieldRetailer:      {"retailer", "store", "merchant", "shop", "brand"},
	FieldCategory:      {"category", "cat", "department"},
	FieldURL:           {"url", "link", "dealurl", "producturl", "href"},
	FieldImage:         {"image", "img", "imageurl", "picture", "thumbnail"},
	FieldPrice:         {"price", "saleprice", "dealprice", "nowprice", "currentprice"},
	FieldOriginalPrice: {"originalprice", "rrp", "wasprice", "listprice", "oldprice"},
	FieldCurrency:      {"currency", "ccy"},
	FieldTags:          {"tags", "tag", "keywords", "labels"},
	FieldRegions:       {"regions", "region", "country", "countries", "markets"},
	FieldPopularity:    {"popularity", "clicks", "votes", "views"},
	FieldEndsAt:        {"endsat", "ends", "expiry", "expires", "expiresat", "enddate"},
	FieldUpdatedAt:     {"updatedat", "updated", "lastupdated", "lastmodified", "modified"},
}

// knownHeaders is the flat set of every alias, for header-row detection.
var knownHeaders = func() map[string]bool {
	m := make(map[string]bool)
	for _, aliases := range fieldAliases {
		for _, a := range aliases {
			m[a] = true
		}
	}
	return m
}()

// RawRow maps normalized header names to trimmed cell values. Rows are
// produced fresh per parse and live for a single pipeline run.
type RawRow map[string]string

// Get resolves a canonical field through its alias list and returns the
// first non-empty cell, or "" when the row has no matching column.
func (r RawRow) Get(f Field) string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	for _, alias := range fieldAliases[f] {
		if v, ok := r[alias]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Parse splits raw tab-delimited text into one RawRow per non-empty data
// line. The first line is treated as the header row unless none of its
// cells resolves to a known field, in which case the assumed column order
// applies and the first line is data. Short rows pad with empty strings.
func Parse(text string) []RawRow {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r", "")

	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return []RawRow{}
	}

	headers := make([]string, 0, fieldCount)
	recognized := false
	for _, cell := range strings.Split(lines[0], "\t") {
		h := normalizeHeader(cell)
		headers = append(headers, h)
		if knownHeaders[h] {
			recognized = true
		}
	}
	if recognized {
		lines = lines[1:]
	} else {
		// No header row; assume the fixed canonical column order.
		headers = headers[:0]
		for f := Field(0); f < fieldCount; f++ {
			headers = append(headers, fieldAliases[f][0])
		}
	}

	rows := make([]RawRow, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, "\t")
		row := make(RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = strings.TrimSpace(cells[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// normalizeHeader case-folds a header cell and strips everything but
// letters and digits, so "Deal ID", "deal_id" and "dealId" all match.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
