package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientIPHeader is set by the CDN in front of the service
const clientIPHeader = "CF-Connecting-IP"

const (
	// DefaultClientIdleTTL is how long a client's bucket is kept after its last request
	DefaultClientIdleTTL = 10 * time.Minute

	// DefaultMaxClients caps the number of buckets held at once
	DefaultMaxClients = 10000
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key. Buckets idle for longer
// than IdleTTL are dropped, and at most MaxClients are held; when full the
// least recently seen client is evicted.
type RateLimiter struct {
	limit rate.Limit
	burst int

	IdleTTL    time.Duration
	MaxClients int

	now func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

// NewRateLimiter allows perSecond requests per client with the given burst
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:      rate.Limit(perSecond),
		burst:      burst,
		IdleTTL:    DefaultClientIdleTTL,
		MaxClients: DefaultMaxClients,
		now:        time.Now,
		clients:    make(map[string]*client),
	}
}

// Allow consumes one token for key
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		if l.MaxClients > 0 && len(l.clients) >= l.MaxClients {
			l.evictOldest()
		}
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep drops idle clients, at most once per IdleTTL. Caller holds l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	if l.IdleTTL <= 0 || now.Sub(l.lastSweep) < l.IdleTTL {
		return
	}
	l.lastSweep = now

	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.IdleTTL {
			delete(l.clients, key)
		}
	}
}

// evictOldest removes the least recently seen client. Caller holds l.mu.
func (l *RateLimiter) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, c := range l.clients {
		if oldestKey == "" || c.lastSeen.Before(oldest) {
			oldestKey, oldest = key, c.lastSeen
		}
	}
	delete(l.clients, oldestKey)
}

// Middleware answers 429 once a client exhausts its bucket
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			http.Error(w, "Rate limited", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if ip := r.Header.Get(clientIPHeader); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return "unknown"
}
