package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// RateGate implements a fixed-window rate limiter keyed by client IP.
// The first request from a key opens a window; requests inside the window
// count against the limit, and the first request after the window elapses
// opens a fresh one. Admission never returns an error: a request is either
// admitted or refused.
type RateGate struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	window  time.Duration
	cleanup time.Duration
	now     func() time.Time
}

type window struct {
	count int
	start time.Time
}

// NewRateGate creates a rate gate admitting limit requests per interval
// for each key.
func NewRateGate(limit int, interval time.Duration) *RateGate {
	g := &RateGate{
		windows: make(map[string]*window),
		limit:   limit,
		window:  interval,
		cleanup: 5 * time.Minute,
		now:     time.Now,
	}

	// Start background cleanup goroutine
	go g.cleanupLoop()

	return g
}

// Allow reports whether a request from the given key is admitted.
func (g *RateGate) Allow(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	w, exists := g.windows[key]

	if !exists || now.Sub(w.start) >= g.window {
		// Open a fresh window
		g.windows[key] = &window{count: 1, start: now}
		return true
	}

	if w.count < g.limit {
		w.count++
		return true
	}

	return false
}

// RetryAfter returns the seconds until the key's window elapses, rounded
// up, or zero when the key has no open window.
func (g *RateGate) RetryAfter(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	w, exists := g.windows[key]
	if !exists {
		return 0
	}

	remaining := g.window - g.now().Sub(w.start)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

// cleanupLoop periodically removes elapsed windows
func (g *RateGate) cleanupLoop() {
	ticker := time.NewTicker(g.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		g.mu.Lock()
		now := g.now()
		for key, w := range g.windows {
			if now.Sub(w.start) >= g.window {
				delete(g.windows, key)
			}
		}
		g.mu.Unlock()
	}
}

// RateLimit refuses requests over the gate's limit with a 429 and a
// Retry-After header.
func RateLimit(gate *RateGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r)

			if !gate.Allow(key) {
				slog.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", gate.RetryAfter(key)))
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"code":"RATE_LIMITED","message":"too many requests, please try again later"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client IP address from the request
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in chain
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}
