package domain

import "errors"

var (
	// ErrInvalidInput is returned for malformed requests (bad barcode shape,
	// empty or over-long query) rejected before any network call
	ErrInvalidInput = errors.New("invalid request parameters")

	// ErrNotFound is returned when a valid request matches no record
	ErrNotFound = errors.New("no matching food record found")

	// ErrRateLimited is returned when an upstream signals throttling
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUpstreamFailure is returned on network errors, 5xx responses, or
	// malformed upstream payloads
	ErrUpstreamFailure = errors.New("upstream request failed")

	// ErrCanceled is returned when a request was superseded by a newer one.
	// It is absorbed by the pipeline and never surfaced to the user.
	ErrCanceled = errors.New("request superseded")

	// ErrStaleCursor is returned when a load-more cursor no longer matches
	// the cached result snapshot it was issued against
	ErrStaleCursor = errors.New("stale pagination cursor")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
