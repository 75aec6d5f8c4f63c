package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/siphon/api/respond"
)

// readOnlyPrefix marks a configured API key as scoped to read-only crawl
// operations (health/cache-size; never /crawl, cache clear, or cache flush).
// A key registered as "ro:<secret>" grants read-only scope; the bare key
// grants full scope. This lets an operator hand out a key that can poll
// /api/v1/cache and /api/v1/health without being able to trigger crawls or
// wipe the cache.
const readOnlyPrefix = "ro:"

// readOnlyAllowedMethods are the only methods a read-only-scoped key may call.
var readOnlyAllowedMethods = map[string]bool{
	http.MethodGet:  true,
	http.MethodHead: true,
}

// Auth returns API-key authentication middleware.
//
// Supports two header styles:
//
//	X-API-Key: <key>
//	Authorization: Bearer <key>
//
// If apiKeys is empty, the middleware is a no-op (open access). Keys
// configured with a "ro:" prefix are granted read-only scope (see
// readOnlyPrefix); any such key attempting a mutating request (POST/DELETE,
// i.e. /crawl or cache clear/flush) is rejected with 403.
func Auth(apiKeys []string) gin.HandlerFunc {
	if len(apiKeys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	fullKeys := make(map[string]struct{}, len(apiKeys))
	readOnlyKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		switch {
		case k == "":
			continue
		case strings.HasPrefix(k, readOnlyPrefix):
			readOnlyKeys[strings.TrimPrefix(k, readOnlyPrefix)] = struct{}{}
		default:
			fullKeys[k] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		key := extractAPIKey(c)
		if key == "" {
			respond.Error(c, http.StatusUnauthorized, respond.ErrCodeUnauthorized,
				"missing API key: provide X-API-Key header or Authorization: Bearer <key>")
			return
		}

		if _, valid := fullKeys[key]; valid {
			c.Set("api_key", key)
			c.Set("api_key_scope", "full")
			c.Next()
			return
		}

		if _, valid := readOnlyKeys[key]; valid {
			if !readOnlyAllowedMethods[c.Request.Method] {
				respond.Error(c, http.StatusForbidden, respond.ErrCodeForbidden,
					"this API key is read-only and cannot perform "+c.Request.Method+" requests")
				return
			}
			c.Set("api_key", key)
			c.Set("api_key_scope", "read_only")
			c.Next()
			return
		}

		respond.Error(c, http.StatusUnauthorized, respond.ErrCodeUnauthorized, "invalid API key")
	}
}

// extractAPIKey tries X-API-Key first, then Authorization: Bearer.
func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
