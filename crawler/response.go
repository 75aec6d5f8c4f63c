// Package crawler implements spec.md §4.7's navigation contract:
// crawl(url, run_config) -> AsyncCrawlResponse, generalizing the teacher's
// scraper.DoScrape/doScrapeRod (scraper/scraper.go, scraper/page.go) from a
// flat ScrapeRequest/ScrapeResult pair into the full branching (web/file/raw)
// and step-ordered navigation contract the spec names.
package crawler

import (
	"context"
	"time"

	"github.com/use-agent/siphon/browser"
	"github.com/use-agent/siphon/runcfg"
	"github.com/use-agent/siphon/urlref"
)

// Response is the AsyncCrawlResponse of spec §4.1/§4.7: raw HTML plus
// whatever the navigation path captured, and a closure for late content.
type Response struct {
	HTML            string
	ResponseHeaders map[string]string
	StatusCode      int
	Screenshot      string // base64 PNG, present only if requested
	PDF             []byte
	Downloads       []browser.Download
	SessionID       string
	FinalURL        string

	// GetDelayedContent re-reads page.content() after sleeping delay, for
	// callers that detect late-arriving content (spec §4.7 step 15). Nil
	// for the file/raw branches, where there is no live page to re-read.
	GetDelayedContent func(ctx context.Context, delay time.Duration) (string, error)
}

// Strategy is the single navigation contract every branch (web/file/raw)
// implements.
type Strategy interface {
	Crawl(ctx context.Context, ref urlref.Ref, cfg runcfg.RunConfig) (*Response, error)
}
