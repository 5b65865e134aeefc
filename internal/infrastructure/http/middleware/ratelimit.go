package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pantrymatch/v1/internal/infrastructure/config"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type throttle struct {
	rule     config.RateRule
	limit    rate.Limit
	mu       sync.Mutex
	visitors map[string]*visitor
}

func newThrottle(rule config.RateRule) *throttle {
	return &throttle{
		rule:     rule,
		limit:    rate.Every(rule.Period / time.Duration(rule.Limit)),
		visitors: make(map[string]*visitor),
	}
}

func (t *throttle) visitor(ip string, now time.Time) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.rule.Limit)}
		t.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (t *throttle) sweep(idle time.Duration, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for ip, v := range t.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(t.visitors, ip)
			removed++
		}
	}
	return removed
}

// RateLimiter throttles requests per client IP. Each configured rule is
// exposed as its own middleware and attached to routes by name.
type RateLimiter struct {
	throttles map[string]*throttle
	exempt    map[string]struct{}
	enabled   bool
	logger    *zap.Logger
	now       func() time.Time
	stop      chan struct{}
	once      sync.Once
}

// NewRateLimiter builds the limiter and starts sweeping idle visitors every
// cfg.CleanupInterval. Paths in exempt are never throttled.
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger, exempt ...string) *RateLimiter {
	rl := &RateLimiter{
		enabled:   cfg.Enable,
		throttles: make(map[string]*throttle, len(cfg.Rules)),
		exempt:    make(map[string]struct{}, len(exempt)),
		logger:    logger.Named("rate-limiter"),
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	for _, p := range exempt {
		rl.exempt[p] = struct{}{}
	}
	for _, rule := range cfg.Rules {
		rl.throttles[rule.Name] = newThrottle(rule)
	}

	if rl.enabled && cfg.CleanupInterval > 0 {
		go rl.cleanup(cfg.CleanupInterval)
	}
	return rl
}

// For returns the middleware enforcing the rule called name. Unknown names
// and a disabled limiter pass requests through.
func (rl *RateLimiter) For(name string) func(http.Handler) http.Handler {
	t, ok := rl.throttles[name]
	if rl.enabled && !ok {
		rl.logger.Warn("Rate limit rule not configured", zap.String("rule", name))
	}

	return func(next http.Handler) http.Handler {
		if !rl.enabled || !ok {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := rl.exempt[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			now := rl.now()
			if t.visitor(ip, now).AllowN(now, 1) {
				next.ServeHTTP(w, r)
				return
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("rule", t.rule.Name),
				zap.String("ip", ip),
				zap.String("path", r.URL.Path),
			)
			rl.reject(w, t, now)
		})
	}
}

func (rl *RateLimiter) reject(w http.ResponseWriter, t *throttle, now time.Time) {
	// one token refills every Period/Limit
	reset := now.Add(t.rule.Period / time.Duration(t.rule.Limit))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(t.rule.Limit))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "Too many requests",
		"message": "Rate limit exceeded. Please try again later.",
	})
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			removed := 0
			now := rl.now()
			for _, t := range rl.throttles {
				removed += t.sweep(t.rule.Period, now)
			}
			if removed > 0 {
				rl.logger.Debug("Swept idle rate limit visitors", zap.Int("removed", removed))
			}
		}
	}
}

// Stop ends the sweeper
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// clientIP relies on chi's RealIP having rewritten RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
