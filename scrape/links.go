package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/siphon/result"
	"github.com/use-agent/siphon/runcfg"
)

// socialMediaDomains is the default set consulted for
// exclude-social-media-domains/links, generalized from the teacher's
// host-comparison idiom in cleaner/extract.go.
var socialMediaDomains = []string{
	"facebook.com", "twitter.com", "x.com", "instagram.com", "linkedin.com",
	"tiktok.com", "pinterest.com", "reddit.com", "youtube.com",
}

func extractLinks(doc *goquery.Document, sourceURL string, cfg runcfg.RunConfig) result.Links {
	links := result.Links{}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return links
	}

	excludedDomains := make(map[string]struct{}, len(cfg.ExcludeDomains))
	for _, d := range cfg.ExcludeDomains {
		excludedDomains[strings.ToLower(d)] = struct{}{}
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}

		normalized, skip := normalizeHref(href)
		if skip {
			return
		}

		resolved, err := base.Parse(normalized)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}

		absURL := resolved.String()
		if _, ok := seen[absURL]; ok {
			return
		}

		host := strings.ToLower(resolved.Hostname())
		isExternal := !strings.EqualFold(resolved.Host, base.Host)
		isSocial := isSocialMediaHost(host)

		if isExternal && cfg.ExcludeExternalLinks {
			return
		}
		if isSocial && cfg.ExcludeSocialMediaLinks {
			return
		}
		if _, excluded := excludedDomains[host]; excluded {
			return
		}

		seen[absURL] = struct{}{}
		title, _ := s.Attr("title")
		item := result.LinkItem{
			URL:   absURL,
			Text:  strings.TrimSpace(s.Text()),
			Title: title,
		}
		if isExternal {
			links.External = append(links.External, item)
		} else {
			links.Internal = append(links.Internal, item)
		}
	})

	return links
}

// normalizeHref handles mailto:, tel:, bare anchors, and protocol-relative
// URLs per spec §4.4 step 6. skip is true for links that never resolve to a
// fetchable web URL (mailto, tel, javascript, bare anchor).
func normalizeHref(href string) (normalized string, skip bool) {
	trimmed := strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(trimmed, "mailto:"),
		strings.HasPrefix(trimmed, "tel:"),
		strings.HasPrefix(trimmed, "javascript:"),
		trimmed == "#",
		strings.HasPrefix(trimmed, "#"):
		return "", true
	case strings.HasPrefix(trimmed, "//"):
		return "https:" + trimmed, false
	default:
		return trimmed, false
	}
}

func isSocialMediaHost(host string) bool {
	for _, d := range socialMediaDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
