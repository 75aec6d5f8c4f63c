package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/siphon/cache"
	"github.com/use-agent/siphon/config"
	"github.com/use-agent/siphon/crawler"
	"github.com/use-agent/siphon/internal/logx"
	"github.com/use-agent/siphon/orchestrate"
	"github.com/use-agent/siphon/runcfg"
	"github.com/use-agent/siphon/urlref"
)

type fakeStrategy struct{}

func (fakeStrategy) Crawl(_ context.Context, ref urlref.Ref, _ runcfg.RunConfig) (*crawler.Response, error) {
	return &crawler.Response{
		HTML:       "<html><body><p>hello from a fake page</p></body></html>",
		StatusCode: 200,
		FinalURL:   ref.Raw,
	}, nil
}

func newTestOrchestrator(t *testing.T) *orchestrate.Orchestrator {
	t.Helper()
	dir := t.TempDir()
	store, err := cache.Open(dir, 2)
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log, err := logx.New(config.LogConfig{Level: "error", LogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("logx.New() error = %v", err)
	}

	return orchestrate.New(fakeStrategy{}, store, log)
}

func TestCrawl_SingleURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/crawl", Crawl(newTestOrchestrator(t)))

	body, _ := json.Marshal(CrawlRequest{URL: "https://example.com", CacheMode: "bypass"})
	req := httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if resp["success"] != true {
		t.Errorf("success = %v, want true", resp["success"])
	}
}

func TestCrawl_MissingURLIsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/crawl", Crawl(newTestOrchestrator(t)))

	body, _ := json.Marshal(CrawlRequest{})
	req := httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCrawl_BothURLAndURLsIsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/crawl", Crawl(newTestOrchestrator(t)))

	body, _ := json.Marshal(CrawlRequest{URL: "https://a.com", URLs: []string{"https://b.com"}})
	req := httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCrawl_MultipleURLs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/crawl", Crawl(newTestOrchestrator(t)))

	body, _ := json.Marshal(CrawlRequest{
		URLs:      []string{"https://a.example.com", "https://b.example.com"},
		CacheMode: "bypass",
	})
	req := httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool             `json:"success"`
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(resp.Results))
	}
}
