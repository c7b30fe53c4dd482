package httpinterface

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	visitorTTL      = 5 * time.Minute
	cleanupInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits the number of requests accepted from every client.
type RateLimiter struct {
	limit rate.Limit
	burst int

	lock     sync.Mutex
	visitors map[string]*visitor
	quit     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter returns a limiter accepting up to reqPerMinute requests per
// minute from every client, with bursts of the same size. A non positive
// value disables the limit and returns nil.
func NewRateLimiter(reqPerMinute int) *RateLimiter {
	if reqPerMinute <= 0 {
		return nil
	}

	l := &RateLimiter{
		limit:    rate.Limit(float64(reqPerMinute) / 60),
		burst:    reqPerMinute,
		visitors: make(map[string]*visitor),
		quit:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Middleware answers 429 to clients exceeding their quota. A nil limiter lets
// every request through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := clientID(r)
		if !l.allow(id, time.Now()) {
			log.WithField("client", id).Debug("proxy rate limit exceeded")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error:   http.StatusText(http.StatusTooManyRequests),
				Message: "rate limit exceeded, retry later",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop terminates the cleanup of idle clients.
func (l *RateLimiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.quit) })
}

func (l *RateLimiter) allow(id string, now time.Time) bool {
	l.lock.Lock()
	defer l.lock.Unlock()

	v, ok := l.visitors[id]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[id] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.quit:
			return
		case now := <-ticker.C:
			l.lock.Lock()
			for id, v := range l.visitors {
				if now.Sub(v.lastSeen) > visitorTTL {
					delete(l.visitors, id)
				}
			}
			l.lock.Unlock()
		}
	}
}

func clientID(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if parsed := net.ParseIP(first); parsed != nil {
			return parsed.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
