// Package scrape turns raw rendered HTML into siphon's cleaned-HTML, media,
// links, and metadata artifacts (spec §4.4), generalizing the teacher's
// cleaner/selector.go and cleaner/extract.go from one-shot helpers into the
// full seven-step algorithm.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/use-agent/siphon/internal/errs"
	"github.com/use-agent/siphon/result"
	"github.com/use-agent/siphon/runcfg"
)

// Output is the content-scraping stage's artifact bundle.
type Output struct {
	CleanedHTML string
	Media       result.Media
	Links       result.Links
	Metadata    map[string]string
}

// Scrape runs spec §4.4's seven steps over rawHTML relative to effectiveURL.
func Scrape(rawHTML, effectiveURL string, cfg runcfg.RunConfig) (*Output, error) {
	scoped, err := applyCSSSelector(rawHTML, cfg.CSSSelector)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(scoped))
	if err != nil {
		return nil, errs.Rendering("failed to parse scraped HTML", err)
	}

	stripNoise(doc, cfg)
	collapseWrappers(doc)

	media := extractMedia(doc, effectiveURL, cfg)
	links := extractLinks(doc, effectiveURL, cfg)
	metadata := extractMetadata(doc)

	cleaned, err := doc.Html()
	if err != nil {
		return nil, errs.Rendering("failed to serialize cleaned HTML", err)
	}

	return &Output{
		CleanedHTML: cleaned,
		Media:       media,
		Links:       links,
		Metadata:    metadata,
	}, nil
}

// applyCSSSelector scopes rawHTML to the matches of selector. An empty
// selector is a no-op; a selector with zero matches is a configuration
// error per spec §4.4 step 2 ("fail with an invalid-selector error").
func applyCSSSelector(rawHTML, selector string) (string, error) {
	if selector == "" {
		return rawHTML, nil
	}

	sel, err := cascadia.Parse(selector)
	if err != nil {
		return "", errs.Configuration("invalid CSS selector", err)
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", errs.Rendering("failed to parse HTML for selector scoping", err)
	}

	matches := cascadia.QueryAll(doc, sel)
	if len(matches) == 0 {
		return "", errs.Configuration("CSS selector matched no elements", nil)
	}

	var buf strings.Builder
	for _, node := range matches {
		if err := html.Render(&buf, node); err != nil {
			return "", errs.Rendering("failed to render selector match", err)
		}
	}
	return buf.String(), nil
}
