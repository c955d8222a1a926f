package gateway

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/eleven-am/vokchat/internal/shared"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	// IdleTTL evicts buckets of clients that have been quiet this long.
	// Zero disables eviction.
	IdleTTL time.Duration
}

func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		IdleTTL:           5 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

func newIPLimiter(cfg RateLimiterConfig) *ipLimiter {
	return &ipLimiter{
		cfg:      cfg,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// allow takes one token for ip. When the bucket is empty it returns how long
// the client should wait.
func (l *ipLimiter) allow(ip string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *ipLimiter) sweep() {
	cutoff := l.now().Add(-l.cfg.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *ipLimiter) sweepLoop() {
	ticker := time.NewTicker(l.cfg.IdleTTL)
	defer ticker.Stop()
	for range ticker.C {
		l.sweep()
	}
}

// RateLimiter limits REST requests per client IP and sets Retry-After on
// rejection.
func RateLimiter(cfg RateLimiterConfig) echo.MiddlewareFunc {
	limiter := newIPLimiter(cfg)
	if cfg.IdleTTL > 0 {
		go limiter.sweepLoop()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, wait := limiter.allow(c.RealIP())
			if !ok {
				seconds := int(math.Ceil(wait.Seconds()))
				c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(seconds))
				return shared.TooManyRequests("rate_limit_exceeded", "too many requests")
			}
			return next(c)
		}
	}
}
