package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/siphon/cache"
)

// HealthResponse reports process uptime and cache size for monitoring probes.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	CacheRows int    `json:"cache_rows"`
	Version   string `json:"version"`
}

// Health returns a handler for GET /api/v1/health. store may be nil in tests.
func Health(store *cache.Store, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		rows := 0
		if store != nil {
			if n, err := store.Size(); err == nil {
				rows = n
			} else {
				status = "degraded"
			}
		}

		c.JSON(http.StatusOK, HealthResponse{
			Status:    status,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			CacheRows: rows,
			Version:   "0.1.0",
		})
	}
}
