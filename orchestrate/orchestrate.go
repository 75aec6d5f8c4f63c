// Package orchestrate implements siphon's two public entry points — Run
// (single URL) and RunMany (concurrent fan-out) — wiring the cache, crawler
// strategy, content pipeline, and extraction stages together per spec.md's
// data-flow: cache read → [miss] crawl → scrape → filter → markdown →
// extract → cache write → result.
package orchestrate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/siphon/cache"
	"github.com/use-agent/siphon/crawler"
	"github.com/use-agent/siphon/extract"
	"github.com/use-agent/siphon/filter"
	"github.com/use-agent/siphon/internal/errs"
	"github.com/use-agent/siphon/internal/logx"
	"github.com/use-agent/siphon/markdown"
	"github.com/use-agent/siphon/result"
	"github.com/use-agent/siphon/runcfg"
	"github.com/use-agent/siphon/scrape"
	"github.com/use-agent/siphon/urlref"
	"github.com/use-agent/siphon/webhook"
)

// Orchestrator owns the wiring between the crawler strategy, cache, and
// content pipeline. One instance is shared across every call.
type Orchestrator struct {
	strategy crawler.Strategy
	store    *cache.Store
	markdown *markdown.Generator
	log      *logx.Logger

	filters   map[string]filter.Filter
	extracts  map[string]extract.Strategy

	onResult func(*result.CrawlResult)

	domainMu sync.Mutex
	lastHit  map[string]time.Time
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithOnResult registers a synchronous callback invoked with every
// completed CrawlResult (success or failure). WithWebhook layers an
// HMAC-signed delivery on top of this same hook point.
func WithOnResult(fn func(*result.CrawlResult)) Option {
	return func(o *Orchestrator) { o.onResult = fn }
}

// WithExtractStrategy registers an extraction strategy under a name that
// runcfg.RunConfig.ExtractionStrategy can reference.
func WithExtractStrategy(name string, s extract.Strategy) Option {
	return func(o *Orchestrator) { o.extracts[name] = s }
}

// WithFilter overrides the built-in "bm25"/"pruning" filter registered
// under name.
func WithFilter(name string, f filter.Filter) Option {
	return func(o *Orchestrator) { o.filters[name] = f }
}

// WithWebhook registers an HMAC-signed webhook delivery for every completed
// result, alongside (not instead of) any OnResult hook already configured.
func WithWebhook(url, secret string) Option {
	return func(o *Orchestrator) {
		n := webhook.NewNotifier(url, secret)
		prev := o.onResult
		o.onResult = func(r *result.CrawlResult) {
			if prev != nil {
				prev(r)
			}
			n.Notify(r)
		}
	}
}

// New builds an Orchestrator. strategy drives navigation, store is the
// persistent result cache, log receives per-crawl status lines.
func New(strategy crawler.Strategy, store *cache.Store, log *logx.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		strategy: strategy,
		store:    store,
		markdown: markdown.New(),
		log:      log,
		filters: map[string]filter.Filter{
			"bm25":    filter.NewBM25(""),
			"pruning": filter.NewPruning(),
		},
		extracts: map[string]extract.Strategy{},
		lastHit:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run crawls a single URL reference and returns its result. Every failure
// mode is absorbed into a failed CrawlResult per spec.md §7 — Run itself
// always returns a nil error; even a malformed rawURL becomes a failed result.
func (o *Orchestrator) Run(ctx context.Context, rawURL string, cfg runcfg.RunConfig) (*result.CrawlResult, error) {
	cfg = cfg.ApplyMagic()

	ref, err := urlref.Parse(rawURL)
	if err != nil {
		return o.finish(result.Failed(rawURL, errs.Configuration("invalid URL", err).Error())), nil
	}

	if ref.Kind == urlref.Cache {
		return o.finish(o.readCacheDirect(ref, cfg)), nil
	}

	if cfg.CacheMode.CanRead() {
		if cached, ok := o.store.Get(ref.Hash(), cfg.Screenshot, cfg.PDF); ok {
			o.log.Info(logx.TagCache, "url", ref.Raw, "result", "hit")
			return o.finish(cached), nil
		}
	}

	if ref.Kind == urlref.Web {
		o.waitForDomainSlot(ctx, ref.Raw, cfg.MeanDelay, cfg.MaxRange)
	}

	res := o.crawlAndProcess(ctx, ref, cfg)

	if cfg.CacheMode.CanWrite() && res.Success {
		if err := o.store.Put(ref.Hash(), res); err != nil {
			o.log.Warn(logx.TagCache, "url", ref.Raw, "error", err.Error())
		}
	}

	return o.finish(res), nil
}

// RunMany crawls urls concurrently, bounded by cfg.SemaphoreCount, and
// returns results in the same order as urls.
func (o *Orchestrator) RunMany(ctx context.Context, urls []string, cfg runcfg.RunConfig) ([]*result.CrawlResult, error) {
	n := cfg.SemaphoreCount
	if n <= 0 {
		n = 5
	}
	sem := make(chan struct{}, n)

	results := make([]*result.CrawlResult, len(urls))
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					results[i] = result.Failed(u, errs.New(errs.CodeInternal, fmt.Sprintf("panic: %v", r), nil).Error())
				}
			}()

			res, _ := o.Run(ctx, u, cfg)
			results[i] = res
		}(i, u)
	}
	wg.Wait()

	return results, nil
}

func (o *Orchestrator) finish(res *result.CrawlResult) *result.CrawlResult {
	if o.onResult != nil {
		o.onResult(res)
	}
	return res
}

func (o *Orchestrator) readCacheDirect(ref urlref.Ref, cfg runcfg.RunConfig) *result.CrawlResult {
	if cached, ok := o.store.Get(ref.Value, cfg.Screenshot, cfg.PDF); ok {
		return cached
	}
	return result.Failed(ref.Raw, errs.Cache("no cache entry for this key", nil).Error())
}

// waitForDomainSlot blocks until at least MeanDelay has elapsed since the
// last request to this URL's host, plus a jittered extra delay uniformly
// distributed in [0, MaxRange). Grounded on the teacher's domain_memory.go
// sync.Map-with-TTL idiom, adapted from a retirement check into a rate gate.
func (o *Orchestrator) waitForDomainSlot(ctx context.Context, rawURL string, mean, maxRange time.Duration) {
	host := hostOf(rawURL)
	if host == "" || mean <= 0 {
		o.recordHit(host)
		return
	}

	o.domainMu.Lock()
	last, ok := o.lastHit[host]
	o.domainMu.Unlock()

	if ok {
		wait := mean - time.Since(last)
		if maxRange > 0 {
			wait += jitter(maxRange)
		}
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
			}
		}
	}

	o.recordHit(host)
}

func (o *Orchestrator) recordHit(host string) {
	if host == "" {
		return
	}
	o.domainMu.Lock()
	o.lastHit[host] = time.Now()
	o.domainMu.Unlock()
}

func hostOf(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return strings.ToLower(rest)
}
