package extract

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCSSSchema_SingleRecord(t *testing.T) {
	html := `<html><body><h1 class="title">Hello</h1><span class="author">Jane</span></body></html>`
	s := NewCSSSchema(Schema{
		Fields: []Field{
			{Name: "title", Selector: ".title"},
			{Name: "author", Selector: ".author"},
		},
	})

	out, err := s.Extract("https://example.com", html)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	var record map[string]string
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, output = %s", err, out)
	}
	if record["title"] != "Hello" {
		t.Errorf("title = %q, want %q", record["title"], "Hello")
	}
	if record["author"] != "Jane" {
		t.Errorf("author = %q, want %q", record["author"], "Jane")
	}
}

func TestCSSSchema_RepeatingRecords(t *testing.T) {
	html := `<html><body>
		<div class="card"><h2 class="name">A</h2><a class="link" href="/a">link</a></div>
		<div class="card"><h2 class="name">B</h2><a class="link" href="/b">link</a></div>
	</body></html>`

	s := NewCSSSchema(Schema{
		BaseSelector: ".card",
		Fields: []Field{
			{Name: "name", Selector: ".name"},
			{Name: "href", Selector: ".link", Attr: "href"},
		},
	})

	out, err := s.Extract("https://example.com", html)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	var records []map[string]string
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0]["name"] != "A" || records[1]["name"] != "B" {
		t.Errorf("records = %+v, want A then B", records)
	}
	if records[0]["href"] != "/a" {
		t.Errorf("records[0][href] = %q, want /a", records[0]["href"])
	}
}

func TestFixedTokenChunker_SplitsOnParagraphBoundaries(t *testing.T) {
	c := NewFixedTokenChunker(5)
	text := "short one\n\nshort two\n\nshort three"
	chunks := c.Chunk(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d: %v", len(chunks), chunks)
	}
	for _, chunk := range chunks {
		if strings.Contains(chunk, "\n\n\n") {
			t.Errorf("chunk contains unexpected separator: %q", chunk)
		}
	}
}

func TestFixedTokenChunker_EmptyTextProducesNoChunks(t *testing.T) {
	c := NewFixedTokenChunker(100)
	if chunks := c.Chunk(""); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %v", chunks)
	}
}
