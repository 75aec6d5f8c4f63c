package crawler

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// setupHijack blocks image responses for hosts other than pageHost when
// excludeExternalImages is set, reusing the teacher's HijackRequests idiom
// (scraper/hijack.go) generalized from a fixed resource-type blocklist to
// this one spec-named behavior (spec §4.4: "drop if ... external and
// excluded"). Returns nil (no router mounted) when there's nothing to block.
func setupHijack(p *rod.Page, pageHost string, excludeExternalImages bool) *rod.HijackRouter {
	if !excludeExternalImages {
		return nil
	}

	router := p.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if ctx.Request.Type() == proto.NetworkResourceTypeImage {
			reqHost := hostFromURL(ctx.Request.URL().String())
			if reqHost != "" && pageHost != "" && reqHost != pageHost {
				ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
				return
			}
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}
