// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// limiterEntry pairs a limiter with the last time it was used.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*limiterEntry
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// newLimiterCache creates a new limiter cache.
func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	now := lc.now()

	lc.mu.RLock()
	entry, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		lc.mu.Lock()
		entry.lastSeen = now
		lc.mu.Unlock()
		return entry.limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, exists = lc.limiters[key]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	entry = &limiterEntry{limiter: rate.NewLimiter(lc.rate, lc.burst), lastSeen: now}
	lc.limiters[key] = entry
	return entry.limiter
}

// evictIdle removes limiters not used for longer than idle.
// Returns the number of removed entries.
func (lc *limiterCache[K]) evictIdle(idle time.Duration) int {
	cutoff := lc.now().Add(-idle)

	lc.mu.Lock()
	defer lc.mu.Unlock()

	removed := 0
	for key, entry := range lc.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(lc.limiters, key)
			removed++
		}
	}
	return removed
}

// clearIfExceeds clears all entries if the cache exceeds maxSize.
// Returns true if the cache was cleared.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*limiterEntry)
		return true
	}
	return false
}

func (lc *limiterCache[K]) size() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// Limiter cache bounds.
const (
	limiterIdleTTL  = 30 * time.Minute
	limiterMaxSize  = 10000
	limiterSweepGap = 5 * time.Minute
)

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	cache *limiterCache[string]

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// NewRateLimiter creates a per-IP rate limiter.
// rps is requests per second, burst is the maximum burst size.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 0.2
	}
	if burst <= 0 {
		burst = 5
	}
	return &RateLimiter{cache: newLimiterCache[string](rps, burst)}
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.maybeSweep()
	return rl.cache.get(ip).Allow()
}

// maybeSweep evicts idle limiters at most once per limiterSweepGap, so the
// cache stays bounded without a background goroutine.
func (rl *RateLimiter) maybeSweep() {
	rl.sweepMu.Lock()
	now := rl.cache.now()
	if now.Sub(rl.lastSweep) < limiterSweepGap {
		rl.sweepMu.Unlock()
		return
	}
	rl.lastSweep = now
	rl.sweepMu.Unlock()

	if n := rl.cache.evictIdle(limiterIdleTTL); n > 0 {
		slog.Debug("evicted idle rate limiters", "count", n)
	}
	if rl.cache.clearIfExceeds(limiterMaxSize) {
		slog.Info("cleared IP rate limiters due to size")
	}
}

// Middleware returns the rate limiting middleware (JSON 429 errors).
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetClientIP(r)
			if !rl.Allow(ip) {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				WriteError(w, http.StatusTooManyRequests, "Too many requests. Please wait a moment and try again.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP extracts the client IP from the request. chi's RealIP
// middleware has normally already rewritten RemoteAddr from proxy headers.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs; take the first one
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
