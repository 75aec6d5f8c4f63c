package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/siphon/api/respond"
	"github.com/use-agent/siphon/cache"
)

// CacheSize returns a handler for GET /api/v1/cache.
func CacheSize(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := store.Size()
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, respond.ErrCodeInternal, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "rows": n})
	}
}

// CacheClear returns a handler for DELETE /api/v1/cache, dropping every
// cached row and content-addressed file.
func CacheClear(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Clear(); err != nil {
			respond.Error(c, http.StatusInternalServerError, respond.ErrCodeInternal, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// CacheFlush returns a handler for POST /api/v1/cache/flush, compacting the
// on-disk index.
func CacheFlush(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Flush(); err != nil {
			respond.Error(c, http.StatusInternalServerError, respond.ErrCodeInternal, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
