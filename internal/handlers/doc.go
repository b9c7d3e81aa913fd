// Package handlers implements the HTTP surface of the portfolio: the static
// site content, the gallery index and pages, the cached image variants, and
// the operational endpoints (health, version, stats, metrics).
//
// Image handlers never fail on cache trouble: the resolver degrades to the
// original file, so a request is only rejected for traversal attempts (400)
// or genuinely missing files (404).
package handlers
