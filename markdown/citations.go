package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// inlineLinkRe matches Markdown inline links, with an optional title:
// [text](url) or [text](url "title").
var inlineLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)`)

// RewriteCitations replaces every inline Markdown link with a numbered
// citation marker ⟨n⟩, assigned in left-to-right first-occurrence order.
// Repeated URLs reuse their existing number, so the rewrite is idempotent:
// running it again on its own output (which contains no more [text](url)
// patterns) is a no-op, and running it twice on the same source markdown
// yields identical numbering. Exported so the cache can re-derive the
// citation form and references from a stored raw-markdown blob on a hit.
func RewriteCitations(md string) (withCitations string, references string) {
	urlToNum := make(map[string]int)
	type ref struct {
		num   int
		url   string
		title string
	}
	var refs []ref
	counter := 0

	rewritten := inlineLinkRe.ReplaceAllStringFunc(md, func(match string) string {
		parts := inlineLinkRe.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		text, url, title := parts[1], parts[2], parts[3]

		num, exists := urlToNum[url]
		if !exists {
			counter++
			num = counter
			urlToNum[url] = num
			refs = append(refs, ref{num: num, url: url, title: title})
		}

		return fmt.Sprintf("[%s]⟨%d⟩", text, num)
	})

	if len(refs) == 0 {
		return md, ""
	}

	var lines []string
	for _, r := range refs {
		if r.title != "" {
			lines = append(lines, fmt.Sprintf("⟨%d⟩ %s: %q", r.num, r.url, r.title))
		} else {
			lines = append(lines, fmt.Sprintf("⟨%d⟩ %s", r.num, r.url))
		}
	}

	return rewritten, strings.Join(lines, "\n")
}
