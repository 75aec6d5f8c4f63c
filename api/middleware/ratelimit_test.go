package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/siphon/config"
)

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w1.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w1.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w2.Code)
	}
}

func TestRateLimit_BatchCrawlConsumesOneTokenPerURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 3}))
	r.POST("/crawl", func(c *gin.Context) { c.Status(http.StatusOK) })

	body := []byte(`{"urls":["https://a.test","https://b.test","https://c.test"]}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("first (3-URL) batch status = %d, want 200", w.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader([]byte(`{"url":"https://d.test"}`))))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("request right after a burst-exhausting batch status = %d, want 429", w2.Code)
	}
}

func TestRateLimit_RestoresBodyForHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 10, Burst: 10}))

	var gotBody string
	r.POST("/crawl", func(c *gin.Context) {
		b, _ := c.GetRawData()
		gotBody = string(b)
		c.Status(http.StatusOK)
	})

	body := []byte(`{"url":"https://a.test"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotBody != string(body) {
		t.Errorf("handler saw body %q, want %q (rate limiter must restore it)", gotBody, body)
	}
}
