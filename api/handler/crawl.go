package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/siphon/api/respond"
	"github.com/use-agent/siphon/orchestrate"
	"github.com/use-agent/siphon/runcfg"
)

// CrawlRequest is the JSON body for POST /api/v1/crawl. Exactly one of URL or
// URLs must be set; URLs drives orchestrate.RunMany, URL drives a single
// orchestrate.Run.
type CrawlRequest struct {
	URL  string   `json:"url"`
	URLs []string `json:"urls"`

	CacheMode          string `json:"cache_mode"` // "enabled" | "disabled" | "read_only" | "write_only" | "bypass"
	CSSSelector        string `json:"css_selector"`
	ContentFilter      string `json:"content_filter"` // "bm25" | "pruning"
	ExtractionStrategy string `json:"extraction_strategy"`
	WordCountThreshold int    `json:"word_count_threshold"`
	Screenshot         bool   `json:"screenshot"`
	PDF                bool   `json:"pdf"`
	SemaphoreCount     int    `json:"semaphore_count"`
	MeanDelayMS        int    `json:"mean_delay_ms"`
	MaxRangeMS         int    `json:"max_range_ms"`
	Magic              bool   `json:"magic"`
}

func (r *CrawlRequest) toRunConfig() runcfg.RunConfig {
	cfg := runcfg.Defaults()

	switch r.CacheMode {
	case "disabled":
		cfg.CacheMode = runcfg.Disabled
	case "read_only":
		cfg.CacheMode = runcfg.ReadOnly
	case "write_only":
		cfg.CacheMode = runcfg.WriteOnly
	case "bypass":
		cfg.CacheMode = runcfg.Bypass
	case "", "enabled":
		cfg.CacheMode = runcfg.Enabled
	}

	cfg.CSSSelector = r.CSSSelector
	cfg.ContentFilter = r.ContentFilter
	cfg.ExtractionStrategy = r.ExtractionStrategy
	cfg.Screenshot = r.Screenshot
	cfg.PDF = r.PDF
	cfg.Magic = r.Magic

	if r.WordCountThreshold > 0 {
		cfg.WordCountThreshold = r.WordCountThreshold
	}
	if r.SemaphoreCount > 0 {
		cfg.SemaphoreCount = r.SemaphoreCount
	}
	if r.MeanDelayMS > 0 {
		cfg.MeanDelay = time.Duration(r.MeanDelayMS) * time.Millisecond
	}
	if r.MaxRangeMS > 0 {
		cfg.MaxRange = time.Duration(r.MaxRangeMS) * time.Millisecond
	}

	return cfg.ApplyMagic()
}

// Crawl returns a handler for POST /api/v1/crawl, dispatching to Run or
// RunMany depending on which of URL/URLs the body sets.
func Crawl(orch *orchestrate.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}

		if req.URL == "" && len(req.URLs) == 0 {
			respond.BadRequest(c, `one of "url" or "urls" is required`)
			return
		}
		if req.URL != "" && len(req.URLs) > 0 {
			respond.BadRequest(c, `provide either "url" or "urls", not both`)
			return
		}

		cfg := req.toRunConfig()

		if req.URL != "" {
			res, err := orch.Run(c.Request.Context(), req.URL, cfg)
			if err != nil {
				respond.BadRequest(c, err.Error())
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
			return
		}

		results, err := orch.RunMany(c.Request.Context(), req.URLs, cfg)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, respond.ErrCodeInternal, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
	}
}
