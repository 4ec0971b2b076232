package api

import "errors"

// Handler error sentinels. They surface in error response bodies, so the
// text is consumer-facing.
var (
	// ErrBadRequest indicates a malformed or out-of-range query parameter.
	ErrBadRequest = errors.New("invalid request parameter")

	// ErrBadSeason indicates an unrecognized season override value.
	ErrBadSeason = errors.New("season must be one of summer, autumn, winter, spring")

	// ErrMissingURL indicates a request that needs a url parameter and got none.
	ErrMissingURL = errors.New("missing url parameter")

	// ErrNoImage indicates no usable product image was found for a page.
	ErrNoImage = errors.New("no image found for page")
)
