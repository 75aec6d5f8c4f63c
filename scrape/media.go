package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/siphon/result"
	"github.com/use-agent/siphon/runcfg"
)

// srcAttrPriority is the attribute list checked in order to resolve an
// image's effective src, per spec §4.4 step 5.
var srcAttrPriority = []string{"src", "data-src", "srcset", "data-original"}

// nonContentPatterns are substrings in class/src that mark decorative,
// non-content images (icons, spacers, placeholders).
var nonContentPatterns = []string{"icon", "thumbnail", "placeholder", "spacer", "sprite", "avatar", "logo"}

const minImageDimension = 32

func extractMedia(doc *goquery.Document, baseURL string, cfg runcfg.RunConfig) result.Media {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = &url.URL{}
	}

	media := result.Media{}
	seen := make(map[string]struct{})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := resolveImgSrc(s)
		if src == "" {
			return
		}
		resolved, err := base.Parse(src)
		if err != nil || resolved.Scheme == "data" {
			return
		}
		absURL := resolved.String()
		if _, ok := seen[absURL]; ok {
			return
		}

		class, _ := s.Attr("class")
		if matchesAnyPattern(class, nonContentPatterns) || matchesAnyPattern(src, nonContentPatterns) {
			return
		}
		if isTooSmall(s) {
			return
		}
		if isHidden(s) {
			return
		}
		isExternal := resolved.Host != "" && !strings.EqualFold(resolved.Host, base.Host)
		if isExternal && cfg.ExcludeExternalImages {
			return
		}
		if cfg.ExcludeSocialMediaDomains && isSocialMediaHost(strings.ToLower(resolved.Hostname())) {
			return
		}

		score := scoreImage(s)
		if score < cfg.ImageScoreThreshold {
			return
		}

		seen[absURL] = struct{}{}
		alt, _ := s.Attr("alt")
		item := result.MediaItem{
			URL:   absURL,
			Score: score,
			Alt:   strings.TrimSpace(alt),
			Width: intAttr(s, "width"),
			Height: intAttr(s, "height"),
		}
		item.Description = imageDescription(s, cfg.ImageDescriptionMinWordThreshold)
		media.Images = append(media.Images, item)
	})

	doc.Find("video").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			if resolved, err := base.Parse(src); err == nil {
				media.Videos = append(media.Videos, result.MediaItem{URL: resolved.String()})
			}
		}
	})
	doc.Find("audio").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			if resolved, err := base.Parse(src); err == nil {
				media.Audio = append(media.Audio, result.MediaItem{URL: resolved.String()})
			}
		}
	})

	return media
}

func resolveImgSrc(s *goquery.Selection) string {
	for _, attr := range srcAttrPriority {
		v, ok := s.Attr(attr)
		if !ok || v == "" {
			continue
		}
		if attr == "srcset" {
			first := strings.TrimSpace(strings.Split(v, ",")[0])
			first = strings.Fields(first)[0]
			return first
		}
		return v
	}
	return ""
}

func matchesAnyPattern(s string, patterns []string) bool {
	lower := strings.ToLower(s)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func isTooSmall(s *goquery.Selection) bool {
	w := intAttr(s, "width")
	h := intAttr(s, "height")
	if w > 0 && w < minImageDimension {
		return true
	}
	if h > 0 && h < minImageDimension {
		return true
	}
	return false
}

func isHidden(s *goquery.Selection) bool {
	style, _ := s.Attr("style")
	style = strings.ToLower(style)
	return strings.Contains(style, "display:none") || strings.Contains(style, "display: none") ||
		strings.Contains(style, "visibility:hidden") || strings.Contains(style, "visibility: hidden")
}

func intAttr(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 0
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// scoreImage derives a score from the container's text density: images
// inside text-dense containers (likely content) score higher than images
// inside link/nav-dense containers (likely decorative or ad units).
func scoreImage(s *goquery.Selection) float64 {
	container := s.Parent()
	text := strings.TrimSpace(container.Text())
	if text == "" {
		return 0.5
	}
	linkText := 0
	container.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkText += len(strings.TrimSpace(a.Text()))
	})
	density := 1.0 - float64(linkText)/float64(len(text)+1)
	if density < 0 {
		density = 0
	}
	return 1.0 + density
}

// imageDescription returns the figcaption of the image's enclosing <figure>,
// but only when that caption has at least minWords words (spec §4.4 step 5).
// Alt text is not used, and an image outside a <figure> gets no description.
func imageDescription(s *goquery.Selection, minWords int) string {
	var caption string
	if fig := s.Closest("figure"); fig.Length() > 0 {
		caption = strings.TrimSpace(fig.Find("figcaption").Text())
	}
	if caption == "" {
		return ""
	}
	if len(strings.Fields(caption)) < minWords {
		return ""
	}
	return caption
}
