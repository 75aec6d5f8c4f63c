package orchestrate

import (
	"context"
	"math/rand"
	"time"

	"github.com/use-agent/siphon/filter"
	"github.com/use-agent/siphon/internal/errs"
	"github.com/use-agent/siphon/internal/logx"
	"github.com/use-agent/siphon/result"
	"github.com/use-agent/siphon/runcfg"
	"github.com/use-agent/siphon/scrape"
	"github.com/use-agent/siphon/urlref"
)

// crawlAndProcess drives the full cache-miss path: navigate, scrape, filter,
// markdown, extract. Every failure is absorbed into a failed CrawlResult —
// this method never panics the caller with a raw error.
func (o *Orchestrator) crawlAndProcess(ctx context.Context, ref urlref.Ref, cfg runcfg.RunConfig) *result.CrawlResult {
	resp, err := o.strategy.Crawl(ctx, ref, cfg)
	if err != nil {
		o.log.Warn(logx.TagFetch, "url", ref.Raw, "error", err.Error())
		return result.Failed(ref.Raw, errs.WithSiteContext(err.Error(), 1))
	}

	effectiveURL := resp.FinalURL
	if effectiveURL == "" {
		effectiveURL = ref.Raw
	}

	res := &result.CrawlResult{
		URL:             ref.Raw,
		HTML:            resp.HTML,
		ResponseHeaders: resp.ResponseHeaders,
		StatusCode:      resp.StatusCode,
		Screenshot:      resp.Screenshot,
		PDF:             resp.PDF,
		SessionID:       resp.SessionID,
	}
	for _, d := range resp.Downloads {
		res.DownloadedFiles = append(res.DownloadedFiles, d.Path)
	}

	scraped, err := scrape.Scrape(resp.HTML, effectiveURL, cfg)
	if err != nil {
		o.log.Warn(logx.TagScrape, "url", ref.Raw, "error", err.Error())
		res.Success = false
		res.ErrorMessage = errs.WithSiteContext(err.Error(), 1)
		return res
	}

	res.CleanedHTML = scraped.CleanedHTML
	res.Media = scraped.Media
	res.Links = scraped.Links
	res.Metadata = scraped.Metadata

	var f filter.Filter
	if cfg.ContentFilter != "" {
		f = o.filters[cfg.ContentFilter]
	}

	mdResult, err := o.markdown.Generate(res.CleanedHTML, effectiveURL, f)
	if err != nil {
		o.log.Warn(logx.TagMarkdown, "url", ref.Raw, "error", err.Error())
		res.Success = false
		res.ErrorMessage = errs.WithSiteContext(err.Error(), 1)
		return res
	}
	res.MarkdownV2 = *mdResult
	res.Markdown = mdResult.MarkdownWithCitations

	if cfg.ExtractionStrategy != "" {
		if strat, ok := o.extracts[cfg.ExtractionStrategy]; ok {
			extracted, err := strat.Extract(effectiveURL, res.CleanedHTML)
			if err != nil {
				o.log.Warn(logx.TagFilter, "url", ref.Raw, "error", err.Error())
			} else {
				res.ExtractedContent = extracted
			}
		}
	}

	res.Success = true
	o.log.Info(logx.TagComplete, "url", ref.Raw, "status", res.StatusCode)
	return res
}

// jitter returns a uniformly random duration in [0, max).
func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}
