package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/use-agent/siphon/result"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, 2)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutBlob_IdempotentWrite(t *testing.T) {
	s := openTestStore(t)

	hash1, err := s.putBlob("html", []byte("hello world"))
	if err != nil {
		t.Fatalf("putBlob() error = %v", err)
	}
	hash2, err := s.putBlob("html", []byte("hello world"))
	if err != nil {
		t.Fatalf("second putBlob() error = %v", err)
	}
	if hash1 != hash2 {
		t.Errorf("identical content produced different hashes: %s vs %s", hash1, hash2)
	}

	data, ok := s.getBlob("html", hash1)
	if !ok {
		t.Fatal("getBlob() ok = false, want true")
	}
	if string(data) != "hello world" {
		t.Errorf("getBlob() = %q, want %q", data, "hello world")
	}
}

func TestGetBlob_MissingFileIsAMiss(t *testing.T) {
	s := openTestStore(t)

	_, ok := s.getBlob("html", "deadbeef")
	if ok {
		t.Error("getBlob() with missing file should report ok = false")
	}
}

func TestGetBlob_EmptyHashIsNotAMiss(t *testing.T) {
	s := openTestStore(t)

	data, ok := s.getBlob("html", "")
	if !ok {
		t.Error("getBlob() with empty hash should report ok = true (unpopulated field)")
	}
	if data != nil {
		t.Errorf("getBlob() with empty hash = %v, want nil", data)
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	r := &result.CrawlResult{
		URL:         "https://example.com/",
		HTML:        "<html>hi</html>",
		CleanedHTML: "<html>hi</html>",
		StatusCode:  200,
		Success:     true,
	}
	r.MarkdownV2.RawMarkdown = "# hi"

	if err := s.Put("abc123", r); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := s.Get("abc123", false, false)
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if got.URL != r.URL || got.HTML != r.HTML || got.StatusCode != r.StatusCode {
		t.Errorf("Get() = %+v, want matching fields of %+v", got, r)
	}
}

func TestPutGet_MarkdownArtifactsMatchFreshResult(t *testing.T) {
	s := openTestStore(t)

	raw := `Hello [link](https://x.test/a).`
	r := &result.CrawlResult{
		URL:        "https://example.com/",
		StatusCode: 200,
		Success:    true,
		Markdown:   "Hello [link]⟨1⟩.",
	}
	r.MarkdownV2.RawMarkdown = raw
	r.MarkdownV2.MarkdownWithCitations = "Hello [link]⟨1⟩."
	r.MarkdownV2.ReferencesMarkdown = "⟨1⟩ https://x.test/a"

	if err := s.Put("citeHash", r); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := s.Get("citeHash", false, false)
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if got.Markdown != r.Markdown {
		t.Errorf("Markdown = %q, want %q", got.Markdown, r.Markdown)
	}
	if got.MarkdownV2.RawMarkdown != raw {
		t.Errorf("MarkdownV2.RawMarkdown = %q, want %q", got.MarkdownV2.RawMarkdown, raw)
	}
	if got.MarkdownV2.MarkdownWithCitations != r.MarkdownV2.MarkdownWithCitations {
		t.Errorf("MarkdownV2.MarkdownWithCitations = %q, want %q", got.MarkdownV2.MarkdownWithCitations, r.MarkdownV2.MarkdownWithCitations)
	}
	if got.MarkdownV2.ReferencesMarkdown != r.MarkdownV2.ReferencesMarkdown {
		t.Errorf("MarkdownV2.ReferencesMarkdown = %q, want %q", got.MarkdownV2.ReferencesMarkdown, r.MarkdownV2.ReferencesMarkdown)
	}
}

func TestGet_MissingRowIsAMiss(t *testing.T) {
	s := openTestStore(t)

	_, ok := s.Get("nonexistent", false, false)
	if ok {
		t.Error("Get() for a nonexistent url_hash should report ok = false")
	}
}

func TestGet_RequestedScreenshotNotCachedIsAMiss(t *testing.T) {
	s := openTestStore(t)

	r := &result.CrawlResult{URL: "https://example.com/", Success: true}
	if err := s.Put("xyz", r); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	_, ok := s.Get("xyz", true, false)
	if ok {
		t.Error("Get() requesting a screenshot that was never cached should report ok = false")
	}
}

func TestClear_RemovesRowsAndBlobs(t *testing.T) {
	s := openTestStore(t)

	r := &result.CrawlResult{URL: "https://example.com/", HTML: "<html/>", Success: true}
	if err := s.Put("abc", r); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, ok := s.Get("abc", false, false); ok {
		t.Error("Get() after Clear() should report ok = false")
	}
	n, err := s.Size()
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Size() after Clear() = %d, want 0", n)
	}
}

func TestLegacyPutGet_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.LegacyPut("hash1", "https://example.com/", "<html/>", "# markdown"); err != nil {
		t.Fatalf("LegacyPut() error = %v", err)
	}

	html, markdown, ok := s.LegacyGet("hash1")
	if !ok {
		t.Fatal("LegacyGet() ok = false, want true")
	}
	if html != "<html/>" || markdown != "# markdown" {
		t.Errorf("LegacyGet() = (%q, %q), want (%q, %q)", html, markdown, "<html/>", "# markdown")
	}
}

func TestLegacyGet_MissingIsAMiss(t *testing.T) {
	s := openTestStore(t)

	_, _, ok := s.LegacyGet("nope")
	if ok {
		t.Error("LegacyGet() for missing key should report ok = false")
	}
}

func TestLegacyDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.LegacyPut("hash2", "https://example.com/", "a", "b"); err != nil {
		t.Fatalf("LegacyPut() error = %v", err)
	}
	if err := s.LegacyDelete("hash2"); err != nil {
		t.Fatalf("LegacyDelete() error = %v", err)
	}
	if _, _, ok := s.LegacyGet("hash2"); ok {
		t.Error("LegacyGet() after LegacyDelete() should report ok = false")
	}
}

func TestOpen_CreatesDirectoryTree(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	for _, sub := range folders {
		p := filepath.Join(dir, sub)
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected directory %s to exist: %v", p, err)
		}
	}
}
