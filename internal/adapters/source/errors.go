package source

import "errors"

// Sentinel kinds for feed source errors.
var (
	ErrUpstreamStatus = errors.New("upstream feed returned non-success status")
)
