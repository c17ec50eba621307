package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// IdleTTL is how long an address may stay quiet before its bucket is
// dropped. A returning address starts with a full burst.
const IdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	r         rate.Limit
	b         int
	clock     clockwork.Clock
	lastSweep time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:   make(map[string]*visitor),
		r:     r,
		b:     b,
		clock: clockwork.NewRealClock(),
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.clock.Now()
	if now.Sub(i.lastSweep) >= IdleTTL {
		i.evictIdle(now)
		i.lastSweep = now
	}

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// evictIdle runs under i.mu.
func (i *IPRateLimiter) evictIdle(now time.Time) {
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) >= IdleTTL {
			delete(i.ips, ip)
		}
	}
}

// LimitMiddleware rejects requests above the per-IP rate with 429.
// Widgets recompute on every keystroke, so the burst must cover a short
// typing run.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
