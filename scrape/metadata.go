package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractMetadata collects page-level metadata: title, description,
// keywords, canonical, Open Graph, Twitter Card, language, charset — spec
// §4.4 step 7, generalized from the teacher's ExtractOGMetadata
// (cleaner/extract.go) which only covered four og: properties.
func extractMetadata(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		meta["title"] = title
	}
	if lang, ok := doc.Find("html").Attr("lang"); ok {
		meta["language"] = lang
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		meta["canonical"] = href
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		if name, ok := s.Attr("name"); ok {
			switch strings.ToLower(name) {
			case "description":
				meta["description"] = content
			case "keywords":
				meta["keywords"] = content
			case "twitter:card":
				meta["twitter:card"] = content
			case "twitter:title":
				meta["twitter:title"] = content
			case "twitter:description":
				meta["twitter:description"] = content
			case "twitter:image":
				meta["twitter:image"] = content
			}
		}
		if prop, ok := s.Attr("property"); ok {
			switch strings.ToLower(prop) {
			case "og:title":
				meta["og:title"] = content
			case "og:description":
				meta["og:description"] = content
			case "og:image":
				meta["og:image"] = content
			case "og:type":
				meta["og:type"] = content
			case "og:url":
				meta["og:url"] = content
			case "og:site_name":
				meta["og:site_name"] = content
			}
		}
		if charset, ok := s.Attr("charset"); ok && charset != "" {
			meta["charset"] = charset
		}
	})

	return meta
}
