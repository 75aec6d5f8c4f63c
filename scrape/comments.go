package scrape

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// removeComments walks the tree under s and detaches every HTML comment
// node, per spec §4.4 step 3.
func removeComments(s *goquery.Selection) {
	s.Each(func(_ int, el *goquery.Selection) {
		node := el.Get(0)
		if node == nil {
			return
		}
		removeCommentChildren(node)
	})
}

func removeCommentChildren(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
			continue
		}
		removeCommentChildren(c)
	}
}
