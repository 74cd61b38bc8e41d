package server

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/smallyu/go-btc-visual/internal/config"
)

// RateLimiter keeps one token bucket per client IP. Mining requests are
// CPU-bound, so a page stuck in a retry loop must not starve the others.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	cfg    *config.Config
	logger *slog.Logger
}

func NewRateLimiter(cfg *config.Config, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*rate.Limiter),
		cfg:    cfg,
		logger: logger,
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	lim, ok := rl.limits[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(rl.cfg.RateLimitRPS), rl.cfg.RateLimitBurst)
		rl.limits[ip] = lim
	}
	return lim
}

func (rl *RateLimiter) clientIP(r *http.Request) string {
	if rl.cfg.TrustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ip := strings.TrimSpace(strings.Split(xff, ",")[0])
			if h, _, err := net.SplitHostPort(ip); err == nil && h != "" {
				return h
			}
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware answers 429 once a client exceeds its bucket.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := rl.clientIP(r)
			if !rl.limiterFor(ip).Allow() {
				rl.logger.Warn("rate_limited", "ip", ip, "limit_rps", rl.cfg.RateLimitRPS, "burst", rl.cfg.RateLimitBurst)
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
