// Package middleware provides the HTTP middleware chain for the portfolio
// server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with normalized path labels
//   - Response compression (gzip)
//   - Optional per-client rate limiting
//   - Configurable filtering for static files and health checks
package middleware
