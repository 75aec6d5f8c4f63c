package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/siphon/cache"
)

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(t.TempDir(), 2)
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCacheSize_ReturnsZeroOnEmptyStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := newTestStore(t)
	r.GET("/cache", CacheSize(store))

	req := httptest.NewRequest(http.MethodGet, "/cache", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCacheClear_Succeeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := newTestStore(t)
	r.DELETE("/cache", CacheClear(store))

	req := httptest.NewRequest(http.MethodDelete, "/cache", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCacheFlush_Succeeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := newTestStore(t)
	r.POST("/cache/flush", CacheFlush(store))

	req := httptest.NewRequest(http.MethodPost, "/cache/flush", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
