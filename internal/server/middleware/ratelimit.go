package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// RateLimiter allows a fixed number of requests per client per window.
// Idle clients expire out of the underlying cache.
type RateLimiter struct {
	mu       sync.Mutex
	visitors *gocache.Cache
	limit    int
	window   time.Duration
	now      func() time.Time
	logger   *zerolog.Logger
}

type visitor struct {
	tokens    int
	windowEnd time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per minute per client.
func NewRateLimiter(limit int, logger *zerolog.Logger) *RateLimiter {
	return newRateLimiter(limit, time.Minute, time.Now, logger)
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time, logger *zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		visitors: gocache.New(10*window, 5*window),
		limit:    limit,
		window:   window,
		now:      now,
		logger:   logger,
	}
}

// Allow consumes one request for client and reports whether it fits.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v := &visitor{tokens: rl.limit, windowEnd: now.Add(rl.window)}
	if cached, ok := rl.visitors.Get(client); ok {
		v = cached.(*visitor)
		if !now.Before(v.windowEnd) {
			v.tokens = rl.limit
			v.windowEnd = now.Add(rl.window)
		}
	}
	rl.visitors.SetDefault(client, v)

	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	return rl.visitors.ItemCount()
}

// RateLimit middleware limits requests per client address.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !rl.Allow(ip) {
				rl.logger.Warn().
					Str("ip", ip).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				if _, writeErr := w.Write([]byte(`{"data":null,"error":{"code":"RATE_LIMITED","message":"Rate limit exceeded","details":"Too many requests. Please try again later."}}`)); writeErr != nil {
					rl.logger.Error().Err(writeErr).Msg("Failed to write rate limit error response")
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the first X-Forwarded-For hop or the remote host.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
