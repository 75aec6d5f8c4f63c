package crawler

import (
	"context"

	"github.com/use-agent/siphon/browser"
	"github.com/use-agent/siphon/runcfg"
	"github.com/use-agent/siphon/urlref"
)

// DefaultStrategy dispatches to LocalStrategy for file:// and raw:
// references and HTTPStrategy for web references, matching spec §4.7's
// branching contract under a single Strategy implementation.
type DefaultStrategy struct {
	local *LocalStrategy
	http  *HTTPStrategy
}

// New builds the default crawler strategy over a shared browser manager and
// hook dispatcher.
func New(mgr *browser.Manager, hooks *browser.Hooks) *DefaultStrategy {
	return &DefaultStrategy{
		local: &LocalStrategy{Browser: mgr},
		http:  &HTTPStrategy{Browser: mgr, Hooks: hooks},
	}
}

func (s *DefaultStrategy) Crawl(ctx context.Context, ref urlref.Ref, cfg runcfg.RunConfig) (*Response, error) {
	if ref.IsBrowserBound() {
		return s.http.Crawl(ctx, ref, cfg)
	}
	return s.local.Crawl(ctx, ref, cfg)
}
