// Package feedgen produces demo TSV deal feeds for local development.
// Point DEALBOARD_FEED_URL at its serve mode to exercise the full
// pipeline without a real spreadsheet.
package feedgen

import "time"

// Config controls a feed generation run.
type Config struct {
	// NumDeals is the number of rows to generate.
	NumDeals int

	// OutputFile receives the TSV when set. Empty writes to stdout.
	OutputFile string

	// Addr serves the generated feed over HTTP when set, instead of
	// writing a file.
	Addr string

	// Seed fixes the random source for reproducible feeds. Zero uses
	// a time-based seed.
	Seed int64

	// MessyRatio is the fraction of rows generated with feed defects:
	// currency symbols in prices, HTML entities in URLs, missing
	// columns. The pipeline is supposed to absorb these.
	MessyRatio float64

	// Now anchors the generated timestamps.
	Now time.Time
}

// withDefaults fills unset fields.
func (c *Config) withDefaults() {
	if c.NumDeals <= 0 {
		c.NumDeals = 40
	}
	if c.MessyRatio < 0 || c.MessyRatio > 1 {
		c.MessyRatio = 0.25
	}
	if c.Now.IsZero() {
		c.Now = time.Now().UTC()
	}
}
