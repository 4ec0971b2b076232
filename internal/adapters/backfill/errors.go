package backfill

import "errors"

// Sentinel kinds for backfill errors.
var (
	ErrNoImage   = errors.New("no usable image candidate")
	ErrPageFetch = errors.New("product page fetch failed")
)
