package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/use-agent/siphon/api/respond"
	"github.com/use-agent/siphon/config"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit returns per-identity (API key or IP) token-bucket rate limiting
// middleware powered by golang.org/x/time/rate.
//
// Entries unused for 1 hour are evicted by a background goroutine that runs
// every 5 minutes, preventing unbounded memory growth.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*limiterEntry)

	getLimiter := func(identity string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		entry, ok := limiters[identity]
		if !ok {
			entry = &limiterEntry{
				limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
			}
			limiters[identity] = entry
		}
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	// Background cleanup goroutine: evict entries not seen in the last hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour)
			mu.Lock()
			for id, entry := range limiters {
				if entry.lastSeen.Before(cutoff) {
					delete(limiters, id)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		// Prefer API key as identity (set by auth middleware); fall back to IP.
		identity, exists := c.Get("api_key")
		if !exists {
			identity = c.ClientIP()
		}

		limiter := getLimiter(identity.(string))
		cost := crawlRequestCost(c)
		if !limiter.AllowN(time.Now(), cost) {
			respond.Error(c, http.StatusTooManyRequests, respond.ErrCodeRateLimited,
				"rate limit exceeded, please slow down")
			return
		}

		c.Next()
	}
}

// crawlBatchBody is the subset of a /crawl request body this middleware needs
// to price the call: a multi-URL batch costs one token per URL, since each
// entry becomes its own browser navigation in orchestrate.RunMany.
type crawlBatchBody struct {
	URLs []string `json:"urls"`
}

// crawlRequestCost returns how many rate-limit tokens this request consumes.
// Every request costs at least 1; a POST /crawl body requesting N URLs via
// "urls" costs N, since it fans out into N independent crawls downstream.
// The body is restored onto the request so the handler can still bind it.
func crawlRequestCost(c *gin.Context) int {
	if c.Request.Method != http.MethodPost || c.Request.Body == nil {
		return 1
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return 1
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var batch crawlBatchBody
	if err := json.Unmarshal(body, &batch); err != nil || len(batch.URLs) == 0 {
		return 1
	}
	return len(batch.URLs)
}
