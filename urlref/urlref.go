// Package urlref parses and classifies the four URL reference variants a
// crawl accepts: http(s) web URLs, file:// local paths, raw: inline HTML
// literals, and cache:// internal cache keys.
package urlref

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Kind enumerates the URL reference variants.
type Kind int

const (
	Web Kind = iota
	File
	Raw
	Cache
)

func (k Kind) String() string {
	switch k {
	case Web:
		return "web"
	case File:
		return "file"
	case Raw:
		return "raw"
	case Cache:
		return "cache"
	default:
		return "unknown"
	}
}

// Ref is a classified URL reference. Value holds the kind-specific payload:
// the full URL for Web, the filesystem path for File, the HTML literal for
// Raw, and the cache key for Cache.
type Ref struct {
	Kind    Kind
	Raw     string // the original input string, unchanged
	Value   string
	urlHash string
}

// Parse classifies raw into one of the four variants. An empty string is
// rejected — the orchestrator must validate non-emptiness before calling.
func Parse(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("empty URL")
	}

	switch {
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return Ref{Kind: Web, Raw: raw, Value: raw}, nil
	case strings.HasPrefix(raw, "file://"):
		return Ref{Kind: File, Raw: raw, Value: strings.TrimPrefix(raw, "file://")}, nil
	case strings.HasPrefix(raw, "raw:"):
		return Ref{Kind: Raw, Raw: raw, Value: strings.TrimPrefix(raw, "raw:")}, nil
	case strings.HasPrefix(raw, "cache://"):
		return Ref{Kind: Cache, Raw: raw, Value: strings.TrimPrefix(raw, "cache://")}, nil
	default:
		return Ref{}, fmt.Errorf("unrecognized URL scheme in %q", raw)
	}
}

// Hash returns the sha256 hex digest of the original URL string. It is used
// both as the cache index key and as the content-address prefix for cached
// artifacts belonging to this reference.
func (r Ref) Hash() string {
	if r.urlHash != "" {
		return r.urlHash
	}
	sum := sha256.Sum256([]byte(r.Raw))
	return hex.EncodeToString(sum[:])
}

// IsBrowserBound reports whether this reference requires driving a headless
// browser (only true for Web); File and Raw are read directly, Cache never
// reaches the crawler strategy at all.
func (r Ref) IsBrowserBound() bool {
	return r.Kind == Web
}
