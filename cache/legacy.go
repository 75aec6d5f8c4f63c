package cache

import (
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"

	"github.com/use-agent/siphon/internal/errs"
)

// legacyEntry is the JSON value stored per URL hash in the legacy bbolt
// bucket (cache/legacy.bolt), the key-value stand-in for the per-URL
// cache/{url-md5} page cache. Per-URL files on disk are not read.
type legacyEntry struct {
	URL       string    `json:"url"`
	HTML      string    `json:"html"`
	Markdown  string    `json:"markdown"`
	FetchedAt time.Time `json:"fetched_at"`
}

// LegacyGet looks up urlHash in the legacy bbolt bucket. Absence is not an
// error, it's simply a miss.
func (s *Store) LegacyGet(urlHash string) (html, markdown string, ok bool) {
	var entry legacyEntry
	err := s.legacy.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(legacyBucket))
		v := b.Get([]byte(urlHash))
		if v == nil {
			return errs.New(errs.CodeCache, "not found", nil)
		}
		return json.Unmarshal(v, &entry)
	})
	if err != nil {
		return "", "", false
	}
	return entry.HTML, entry.Markdown, true
}

// LegacyPut writes urlHash into the legacy bbolt bucket. Nothing on the
// crawl path calls it; crawl results are written through Put's
// content-addressed index.
func (s *Store) LegacyPut(urlHash, url, html, markdown string) error {
	entry := legacyEntry{URL: url, HTML: html, Markdown: markdown, FetchedAt: time.Now()}
	v, err := json.Marshal(entry)
	if err != nil {
		return errs.Cache("failed to marshal legacy entry", err)
	}
	return s.legacy.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(legacyBucket))
		return b.Put([]byte(urlHash), v)
	})
}

// LegacyDelete removes urlHash from the legacy bucket, if present.
func (s *Store) LegacyDelete(urlHash string) error {
	return s.legacy.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(legacyBucket))
		return b.Delete([]byte(urlHash))
	})
}
