package commentview

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lueurxax/dc-comment-filter/internal/platform/config"
)

func TestClientLimiter_Allow(t *testing.T) {
	l := NewClientLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 2})

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "limits are per client")
}

func limitedHandler(l *ClientLimiter, limited *int) http.Handler {
	return l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), func() { *limited++ })
}

func sendFrom(h http.Handler, remoteAddr, xff string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr

	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec.Code
}

func TestClientLimiter_Middleware(t *testing.T) {
	l := NewClientLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 1, TrustProxyHeaders: true})

	limited := 0
	h := limitedHandler(l, &limited)

	assert.Equal(t, http.StatusNoContent, sendFrom(h, "10.0.0.1:1000", "1.1.1.1, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(h, "10.0.0.1:1000", "1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, sendFrom(h, "10.0.0.1:1000", "2.2.2.2"))
	assert.Equal(t, 1, limited)
}

func TestClientLimiter_SameHostDifferentPorts(t *testing.T) {
	l := NewClientLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 1})

	limited := 0
	h := limitedHandler(l, &limited)

	assert.Equal(t, http.StatusNoContent, sendFrom(h, "203.0.113.7:40001", ""))

	for port := 40002; port < 40012; port++ {
		assert.Equal(t, http.StatusTooManyRequests, sendFrom(h, "203.0.113.7:"+strconv.Itoa(port), ""))
	}

	assert.Equal(t, 10, limited)
	assert.Equal(t, 1, l.Clients())
}

func TestClientLimiter_IgnoresForwardingHeadersByDefault(t *testing.T) {
	l := NewClientLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 1})

	limited := 0
	h := limitedHandler(l, &limited)

	assert.Equal(t, http.StatusNoContent, sendFrom(h, "198.51.100.2:5000", "1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(h, "198.51.100.2:5001", "2.2.2.2"))
	assert.Equal(t, 1, limited)
}

func TestClientLimiter_ClientIP(t *testing.T) {
	trusting := NewClientLimiter(config.RateLimitConfig{RPS: 1, Burst: 1, TrustProxyHeaders: true})
	direct := NewClientLimiter(config.RateLimitConfig{RPS: 1, Burst: 1})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", trusting.clientIP(req))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", direct.clientIP(req))

	req.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", direct.clientIP(req))

	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", trusting.clientIP(req))
	assert.Equal(t, "192.0.2.1", direct.clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7")
	assert.Equal(t, "203.0.113.9", trusting.clientIP(req))
	assert.Equal(t, "192.0.2.1", direct.clientIP(req))
}

func TestClientLimiter_Prune(t *testing.T) {
	l := NewClientLimiter(config.RateLimitConfig{RPS: 1, Burst: 1})

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("old")

	now = now.Add(10 * time.Minute)
	l.Allow("recent")

	assert.Equal(t, 2, l.Clients())
	assert.Equal(t, 1, l.Prune(5*time.Minute))
	assert.Equal(t, 1, l.Clients())
	assert.Equal(t, 0, l.Prune(5*time.Minute))
}
