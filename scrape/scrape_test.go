package scrape

import (
	"strings"
	"testing"

	"github.com/use-agent/siphon/runcfg"
)

func TestScrape_RemovesScriptsAndComments(t *testing.T) {
	html := `<html><body><p>hi</p><script>evil()</script><!-- secret --></body></html>`
	out, err := Scrape(html, "https://example.com/", runcfg.Defaults())
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if strings.Contains(out.CleanedHTML, "evil()") {
		t.Error("Scrape() left a <script> tag in the output")
	}
	if strings.Contains(out.CleanedHTML, "secret") {
		t.Error("Scrape() left an HTML comment in the output")
	}
}

func TestScrape_CSSSelectorNoMatchFails(t *testing.T) {
	html := `<html><body><p>hi</p></body></html>`
	cfg := runcfg.Defaults()
	cfg.CSSSelector = "#does-not-exist"

	_, err := Scrape(html, "https://example.com/", cfg)
	if err == nil {
		t.Fatal("Scrape() with a selector matching nothing should fail")
	}
}

func TestScrape_CSSSelectorScopesOutput(t *testing.T) {
	html := `<html><body><div id="main"><p>keep</p></div><div id="sidebar"><p>drop</p></div></body></html>`
	cfg := runcfg.Defaults()
	cfg.CSSSelector = "#main"

	out, err := Scrape(html, "https://example.com/", cfg)
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if !strings.Contains(out.CleanedHTML, "keep") {
		t.Error("Scrape() dropped content inside the matched selector")
	}
	if strings.Contains(out.CleanedHTML, "drop") {
		t.Error("Scrape() kept content outside the matched selector")
	}
}

func TestExtractLinks_InternalVsExternal(t *testing.T) {
	html := `<html><body>
		<a href="/about">About</a>
		<a href="https://other.com/page">Other</a>
		<a href="mailto:hi@example.com">Mail</a>
	</body></html>`

	out, err := Scrape(html, "https://example.com/", runcfg.Defaults())
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if len(out.Links.Internal) != 1 {
		t.Errorf("Internal links = %d, want 1", len(out.Links.Internal))
	}
	if len(out.Links.External) != 1 {
		t.Errorf("External links = %d, want 1", len(out.Links.External))
	}
}

func TestExtractLinks_DedupesRepeatedHref(t *testing.T) {
	html := `<html><body><a href="/a">A</a><a href="/a">A again</a></body></html>`
	out, err := Scrape(html, "https://example.com/", runcfg.Defaults())
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if len(out.Links.Internal) != 1 {
		t.Errorf("expected deduped internal links = 1, got %d", len(out.Links.Internal))
	}
}

func TestExtractMedia_DropsDecorativeImages(t *testing.T) {
	html := `<html><body>
		<img src="/icon-small.png" class="icon" width="16" height="16">
		<div><p>Some surrounding text that is reasonably long for scoring.</p><img src="/photo.jpg" width="800" height="600"></div>
	</body></html>`

	out, err := Scrape(html, "https://example.com/", runcfg.Defaults())
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	for _, img := range out.Media.Images {
		if strings.Contains(img.URL, "icon-small") {
			t.Errorf("expected decorative icon to be dropped, found %s", img.URL)
		}
	}
}

func TestExtractMetadata_CollectsOGAndTwitter(t *testing.T) {
	html := `<html lang="en"><head>
		<title>Page Title</title>
		<meta name="description" content="desc">
		<meta property="og:title" content="OG Title">
		<meta name="twitter:card" content="summary">
	</head><body></body></html>`

	out, err := Scrape(html, "https://example.com/", runcfg.Defaults())
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if out.Metadata["title"] != "Page Title" {
		t.Errorf("Metadata[title] = %q, want %q", out.Metadata["title"], "Page Title")
	}
	if out.Metadata["og:title"] != "OG Title" {
		t.Errorf("Metadata[og:title] = %q, want %q", out.Metadata["og:title"], "OG Title")
	}
	if out.Metadata["language"] != "en" {
		t.Errorf("Metadata[language] = %q, want %q", out.Metadata["language"], "en")
	}
}
