package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/use-agent/siphon/runcfg"
)

// defaultExcludedTags are always removed regardless of run-config (spec §4.4
// step 3: "comments, script/style noise").
var defaultExcludedTags = []string{"script", "style", "noscript"}

// stripNoise removes excluded tags, author-specified excluded selectors,
// comments, empty block elements, and (unless keep-data-attributes is set)
// data-* attributes. Optionally strips forms.
func stripNoise(doc *goquery.Document, cfg runcfg.RunConfig) {
	for _, tag := range defaultExcludedTags {
		doc.Find(tag).Remove()
	}
	for _, tag := range cfg.ExcludedTags {
		doc.Find(tag).Remove()
	}
	for _, sel := range cfg.ExcludedSelectors {
		doc.Find(sel).Remove()
	}
	if cfg.RemoveForms {
		doc.Find("form").Remove()
	}

	removeComments(doc.Selection)

	if !cfg.KeepDataAttributes {
		stripDataAttributes(doc.Selection)
	}

	removeEmptyBlocks(doc)
}

var blockTags = map[string]bool{
	"div": true, "p": true, "section": true, "article": true,
	"span": true, "li": true, "td": true,
}

// removeEmptyBlocks deletes block elements with no text content and no
// media children, repeating until a pass makes no change (removing a leaf
// can make its parent newly empty).
func removeEmptyBlocks(doc *goquery.Document) {
	for {
		removed := 0
		for tag := range blockTags {
			doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
				if s.Find("img,video,audio,iframe,svg").Length() > 0 {
					return
				}
				if strings.TrimSpace(s.Text()) != "" {
					return
				}
				s.Remove()
				removed++
			})
		}
		if removed == 0 {
			break
		}
	}
}

// collapseWrappers collapses nested same-tag div/span wrappers that add no
// structure (a <div><div>X</div></div> becomes <div>X</div>), per spec §4.4
// step 4.
func collapseWrappers(doc *goquery.Document) {
	for _, tag := range []string{"div", "span"} {
		doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
			children := s.Children()
			if children.Length() != 1 {
				return
			}
			child := children.First()
			if goquery.NodeName(child) != tag {
				return
			}
			if strings.TrimSpace(s.Text()) == strings.TrimSpace(child.Text()) {
				child.Unwrap()
			}
		})
	}
}

func stripDataAttributes(s *goquery.Selection) {
	s.Each(func(_ int, el *goquery.Selection) {
		if node := el.Get(0); node != nil {
			filtered := make([]html.Attribute, 0, len(node.Attr))
			for _, attr := range node.Attr {
				if !strings.HasPrefix(attr.Key, "data-") {
					filtered = append(filtered, attr)
				}
			}
			node.Attr = filtered
		}
		stripDataAttributes(el.Children())
	})
}
