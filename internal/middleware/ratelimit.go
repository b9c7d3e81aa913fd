package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"photo-portfolio/internal/metrics"
)

// RateLimitConfig holds configuration for the rate limiting middleware
type RateLimitConfig struct {
	// RequestsPerSecond is the steady-state allowance per client IP.
	// Zero or negative disables the middleware entirely.
	RequestsPerSecond float64
	// Burst is how far a client may briefly exceed the steady rate
	Burst int
	// SkipPaths are prefixes exempt from limiting (probes, metrics)
	SkipPaths []string
	// ClientTTL is how long an idle client's limiter is remembered
	ClientTTL time.Duration
}

// DefaultRateLimitConfig returns the default rate limit configuration.
// Limiting is off by default; a public portfolio usually sits behind a CDN.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 0,
		Burst:             20,
		SkipPaths:         []string{"/health", "/healthz", "/livez", "/readyz", "/metrics"},
		ClientTTL:         10 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter tracks one token bucket per client IP, pruning idle clients so
// the map cannot grow without bound.
type rateLimiter struct {
	config  RateLimitConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func newRateLimiter(config RateLimitConfig) *rateLimiter {
	rl := &rateLimiter{
		config:  config,
		clients: make(map[string]*clientLimiter),
	}
	go rl.pruneLoop()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[ip]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

func (rl *rateLimiter) pruneLoop() {
	ticker := time.NewTicker(rl.config.ClientTTL)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.config.ClientTTL)
		rl.mu.Lock()
		for ip, client := range rl.clients {
			if client.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit returns a middleware enforcing a per-client request rate. With a
// non-positive rate it returns the identity middleware.
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	if config.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if config.Burst < 1 {
		config.Burst = 1
	}
	if config.ClientTTL <= 0 {
		config.ClientTTL = 10 * time.Minute
	}

	rl := newRateLimiter(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range config.SkipPaths {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}

			if !rl.allow(getClientIP(r)) {
				metrics.HTTPRequestsThrottled.Inc()
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
