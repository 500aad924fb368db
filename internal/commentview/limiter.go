package commentview

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lueurxax/dc-comment-filter/internal/platform/config"
)

// ClientLimiter applies a token bucket per client IP.
type ClientLimiter struct {
	rps          rate.Limit
	burst        int
	trustHeaders bool

	limiters   map[string]*clientEntry
	limitersMu sync.Mutex
	now        func() time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a per-client limiter.
func NewClientLimiter(cfg config.RateLimitConfig) *ClientLimiter {
	return &ClientLimiter{
		rps:          rate.Limit(cfg.RPS),
		burst:        cfg.Burst,
		trustHeaders: cfg.TrustProxyHeaders,
		limiters:     make(map[string]*clientEntry),
		now:          time.Now,
	}
}

// Allow reports whether a request from ip may proceed.
func (l *ClientLimiter) Allow(ip string) bool {
	l.limitersMu.Lock()

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = entry
	}

	entry.lastSeen = l.now()
	limiter := entry.limiter

	l.limitersMu.Unlock()

	return limiter.Allow()
}

// Prune forgets clients not seen for idle and returns how many were removed.
func (l *ClientLimiter) Prune(idle time.Duration) int {
	l.limitersMu.Lock()
	defer l.limitersMu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0

	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
			removed++
		}
	}

	return removed
}

// Clients returns the number of tracked clients.
func (l *ClientLimiter) Clients() int {
	l.limitersMu.Lock()
	defer l.limitersMu.Unlock()

	return len(l.limiters)
}

// Middleware rejects requests over the client's limit with 429.
func (l *ClientLimiter) Middleware(next http.Handler, counter func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.clientIP(r)) {
			if counter != nil {
				counter()
			}

			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP keys the limiter. Forwarding headers are honored only when the
// proxy sits behind a trusted front end; otherwise any client could pick its own bucket.
func (l *ClientLimiter) clientIP(r *http.Request) string {
	if l.trustHeaders {
		// Check X-Forwarded-For header (common with reverse proxies)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
				return first
			}
		}

		// Check X-Real-IP header
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	// RemoteAddr carries the source port, which changes per connection.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
