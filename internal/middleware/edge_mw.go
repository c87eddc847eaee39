package middleware

import (
	"net/http"
	"sync"
	"time"

	"restaurant_reviews/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"golang.org/x/time/rate"
)

// TooManyRequestsMessage is returned by both rate limiters.
const TooManyRequestsMessage = "Too many requests, please try again later"

// WrapHTTP adapts a net/http middleware to gin. When the wrapped middleware
// answers on its own (a CORS preflight, a rate limit hit) the gin chain is
// aborted.
func WrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Writer.WriteHeaderNow()
			c.Abort()
		}
	}
}

// CORS allows a single browser origin.
func CORS(origin string) gin.HandlerFunc {
	return WrapHTTP(cors.Handler(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func writeTooManyRequests(limiter string, w http.ResponseWriter) {
	metrics.RecordRateLimited(limiter)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"success":false,"message":"` + TooManyRequestsMessage + `"}`))
}

// RateLimit allows requests per client IP within a sliding window.
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return WrapHTTP(httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeTooManyRequests("window", w)
		}),
	))
}

// BurstGuard is a per-IP token bucket that rejects short request floods.
type BurstGuard struct {
	mu        sync.Mutex
	limiters  map[string]*burstEntry
	rate      rate.Limit
	burst     int
	lastSweep time.Time
}

type burstEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewBurstGuard refills rps tokens per second up to burst.
func NewBurstGuard(rps float64, burst int) *BurstGuard {
	return &BurstGuard{
		limiters:  make(map[string]*burstEntry),
		rate:      rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// Allow reports whether ip may make another request now.
func (g *BurstGuard) Allow(ip string) bool {
	now := time.Now()

	g.mu.Lock()
	if now.Sub(g.lastSweep) > 10*time.Minute {
		for key, entry := range g.limiters {
			if now.Sub(entry.lastAccess) > time.Hour {
				delete(g.limiters, key)
			}
		}
		g.lastSweep = now
	}
	entry, ok := g.limiters[ip]
	if !ok {
		entry = &burstEntry{limiter: rate.NewLimiter(g.rate, g.burst)}
		g.limiters[ip] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	g.mu.Unlock()

	return limiter.Allow()
}

// Handler returns the gin middleware.
func (g *BurstGuard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Allow(c.ClientIP()) {
			writeTooManyRequests("burst", c.Writer)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SecurityHeaders sets the usual hardening headers on every response.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-XSS-Protection", "0")
		h.Set("X-Download-Options", "noopen")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		h.Set("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}
