package crawler

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"
)

func TestHostFromURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"https with path", "https://example.com/page?x=1", "example.com"},
		{"http with fragment", "http://example.com#section", "example.com"},
		{"bare host", "https://example.com", "example.com"},
		{"subdomain", "https://cdn.example.com/img.png", "cdn.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hostFromURL(tt.in); got != tt.want {
				t.Errorf("hostFromURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLooksLikeJS(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"() => document.title", true},
		{"function() { return true; }", true},
		{"#my-selector", false},
		{".some-class", false},
		{"document.readyState === 'complete'", false},
	}
	for _, tt := range tests {
		if got := looksLikeJS(tt.expr); got != tt.want {
			t.Errorf("looksLikeJS(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestBlackFramePNG_ProducesValidPNG(t *testing.T) {
	encoded := blackFramePNG("boom")
	if encoded == "" {
		t.Fatal("blackFramePNG() returned empty string")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("failed to decode blackFramePNG() output: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(decoded)); err != nil {
		t.Errorf("blackFramePNG() output is not a valid PNG: %v", err)
	}
}
