package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rateLimitedHandler(config RateLimitConfig) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimit(config)(next)
}

func doRequest(handler http.Handler, path, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	req.RemoteAddr = clientIP + ":54321"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRateLimitReturns429AfterBurst(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.RequestsPerSecond = 1
	config.Burst = 2
	handler := rateLimitedHandler(config)

	// The burst allows the first two requests through
	for i := 0; i < 2; i++ {
		if w := doRequest(handler, "/api/galleries", "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200 within burst", i+1, w.Code)
		}
	}

	w := doRequest(handler, "/api/galleries", "10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after burst exhausted", w.Code)
	}
	if retry := w.Header().Get("Retry-After"); retry != "1" {
		t.Errorf("Retry-After = %q, want %q", retry, "1")
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.RequestsPerSecond = 1
	config.Burst = 1
	handler := rateLimitedHandler(config)

	// Exhaust one client's bucket
	if w := doRequest(handler, "/api/galleries", "10.0.0.1"); w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", w.Code)
	}
	if w := doRequest(handler, "/api/galleries", "10.0.0.1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", w.Code)
	}

	// A different client has its own bucket
	if w := doRequest(handler, "/api/galleries", "10.0.0.2"); w.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", w.Code)
	}
}

func TestRateLimitSkipsExemptPaths(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.RequestsPerSecond = 1
	config.Burst = 1
	handler := rateLimitedHandler(config)

	// Exhaust the client's bucket on a limited path
	doRequest(handler, "/api/galleries", "10.0.0.1")
	if w := doRequest(handler, "/api/galleries", "10.0.0.1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("limited path: status = %d, want 429", w.Code)
	}

	// Probe endpoints stay reachable for the same client
	for _, path := range []string{"/health", "/healthz", "/livez", "/readyz", "/metrics"} {
		for i := 0; i < 3; i++ {
			if w := doRequest(handler, path, "10.0.0.1"); w.Code != http.StatusOK {
				t.Errorf("GET %s: status = %d, want 200 (exempt)", path, w.Code)
			}
		}
	}
}

func TestRateLimitDisabledPassesEverything(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.RequestsPerSecond = 0
	handler := rateLimitedHandler(config)

	for i := 0; i < 50; i++ {
		if w := doRequest(handler, "/api/galleries", "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200 with limiting off", i+1, w.Code)
		}
	}
}

func TestRateLimitUsesForwardedClientIP(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.RequestsPerSecond = 1
	config.Burst = 1
	handler := rateLimitedHandler(config)

	// Two proxied clients share RemoteAddr but differ in X-Forwarded-For
	send := func(forwardedFor string) int {
		req := httptest.NewRequest("GET", "/api/galleries", nil)
		req.RemoteAddr = "10.0.0.254:54321"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("203.0.113.5"); code != http.StatusOK {
		t.Fatalf("first client: status = %d, want 200", code)
	}
	if code := send("203.0.113.5"); code != http.StatusTooManyRequests {
		t.Fatalf("first client repeat: status = %d, want 429", code)
	}
	if code := send("203.0.113.6"); code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", code)
	}
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.RequestsPerSecond = 1
	config.Burst = 1
	config.ClientTTL = 30 * time.Millisecond

	rl := newRateLimiter(config)
	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	rl.mu.Lock()
	before := len(rl.clients)
	rl.mu.Unlock()
	if before != 2 {
		t.Fatalf("tracked clients = %d, want 2", before)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rl.mu.Lock()
		remaining := len(rl.clients)
		rl.mu.Unlock()
		if remaining == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("idle clients were never pruned")
}
