package webui

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultRatePerMinute = 60
	// limiterIdleTTL is how long an unused client bucket is kept.
	limiterIdleTTL = 10 * time.Minute
)

type clientBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client address. Buckets idle for
// longer than ttl are swept, so the map is bounded by the clients seen
// within one ttl.
type clientLimiter struct {
	mu        sync.Mutex
	m         map[string]*clientBucket
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(perMinute int) *clientLimiter {
	if perMinute <= 0 {
		perMinute = defaultRatePerMinute
	}
	return &clientLimiter{
		m:     make(map[string]*clientBucket),
		rate:  rate.Limit(float64(perMinute) / 60.0),
		burst: perMinute,
		ttl:   limiterIdleTTL,
		now:   time.Now,
	}
}

func (c *clientLimiter) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= c.ttl {
		c.sweep(now)
	}

	b, ok := c.m[key]
	if !ok {
		b = &clientBucket{lim: rate.NewLimiter(c.rate, c.burst)}
		c.m[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

func (c *clientLimiter) sweep(now time.Time) {
	for key, b := range c.m {
		if now.Sub(b.lastSeen) >= c.ttl {
			delete(c.m, key)
		}
	}
	c.lastSweep = now
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !s.limiter.allow(key) {
			s.logger.Warn("rate limit exceeded", zap.String("client", key))
			http.Error(w, "Too many requests, please slow down", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the host part of RemoteAddr. Forwarding headers only reach
// RemoteAddr when the server is configured to trust a proxy.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
