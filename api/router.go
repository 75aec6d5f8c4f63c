package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/siphon/api/handler"
	"github.com/use-agent/siphon/api/middleware"
	"github.com/use-agent/siphon/cache"
	"github.com/use-agent/siphon/config"
	"github.com/use-agent/siphon/orchestrate"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(orch *orchestrate.Orchestrator, store *cache.Store, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(store, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/crawl", handler.Crawl(orch))

	protected.GET("/cache", handler.CacheSize(store))
	protected.DELETE("/cache", handler.CacheClear(store))
	protected.POST("/cache/flush", handler.CacheFlush(store))

	return r
}
