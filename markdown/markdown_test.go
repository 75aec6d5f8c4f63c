package markdown

import (
	"regexp"
	"strings"
	"testing"
)

func TestRewriteCitations_AssignsSequentialNumbers(t *testing.T) {
	md := `See [Google](https://google.com) and [GitHub](https://github.com "Code host")`
	withCitations, references := RewriteCitations(md)

	if !strings.Contains(withCitations, "[Google]⟨1⟩") {
		t.Errorf("expected [Google]⟨1⟩ in %q", withCitations)
	}
	if !strings.Contains(withCitations, "[GitHub]⟨2⟩") {
		t.Errorf("expected [GitHub]⟨2⟩ in %q", withCitations)
	}
	if !strings.Contains(references, "⟨1⟩ https://google.com") {
		t.Errorf("expected reference 1 in %q", references)
	}
	if !strings.Contains(references, `⟨2⟩ https://github.com: "Code host"`) {
		t.Errorf("expected reference 2 with title in %q", references)
	}
}

func TestRewriteCitations_DuplicateURLReusesNumber(t *testing.T) {
	md := `[A](https://x.com) then [B](https://x.com) then [C](https://y.com)`
	withCitations, references := RewriteCitations(md)

	if !strings.Contains(withCitations, "[A]⟨1⟩") || !strings.Contains(withCitations, "[B]⟨1⟩") {
		t.Errorf("expected both A and B to cite ⟨1⟩, got %q", withCitations)
	}
	if !strings.Contains(withCitations, "[C]⟨2⟩") {
		t.Errorf("expected C to cite ⟨2⟩, got %q", withCitations)
	}
	if strings.Count(references, "⟨1⟩") != 1 {
		t.Errorf("expected exactly one reference entry for ⟨1⟩, got %q", references)
	}
}

func TestRewriteCitations_IsIdempotent(t *testing.T) {
	md := `Visit [example](https://example.com) for more.`

	first, firstRefs := RewriteCitations(md)
	second, secondRefs := RewriteCitations(first)

	if second != first {
		t.Errorf("rewriteCitations is not idempotent: first = %q, second = %q", first, second)
	}
	if secondRefs != "" {
		t.Errorf("re-running over already-cited markdown should find no new inline links, got refs %q", secondRefs)
	}
	_ = firstRefs
}

func TestRewriteCitations_NoLinksIsNoop(t *testing.T) {
	md := "Just plain text, no links here."
	withCitations, references := RewriteCitations(md)
	if withCitations != md {
		t.Errorf("expected unchanged text, got %q", withCitations)
	}
	if references != "" {
		t.Errorf("expected no references block, got %q", references)
	}
}

func TestRewriteCitations_CitationIndicesMatchPattern(t *testing.T) {
	md := `[One](https://a.com) [Two](https://b.com)`
	withCitations, _ := RewriteCitations(md)

	re := regexp.MustCompile(`\[[^]]+\]⟨\d+⟩`)
	matches := re.FindAllString(withCitations, -1)
	if len(matches) != 2 {
		t.Errorf("expected 2 citation markers, got %d in %q", len(matches), withCitations)
	}
}
