package filter

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockTags are the elements BM25 chunks on — it never splits a block
// mid-element, so a kept chunk is always a complete tag.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true, "pre": true,
	"article": true, "section": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// BM25 ranks HTML content blocks against a query — supplied explicitly, or
// derived from the page's own title/description/keywords metadata — and
// keeps the blocks whose score clears ScoreThreshold, spec.md §4.5.
type BM25 struct {
	// Query is the search query to rank blocks against. Empty means derive
	// one from the page's metadata.
	Query string

	// ScoreThreshold is the minimum BM25 score a block must reach to be
	// retained. Defaults to 1.0 if zero.
	ScoreThreshold float64

	// K1 and B are the standard BM25 tuning parameters. Zero values fall
	// back to the conventional k1=1.2, b=0.75.
	K1 float64
	B  float64
}

// NewBM25 returns a BM25 filter for the given query (empty derives one from
// page metadata) with conventional defaults.
func NewBM25(query string) *BM25 {
	return &BM25{Query: query, ScoreThreshold: 1.0, K1: 1.2, B: 0.75}
}

type block struct {
	html  string
	text  string
	freq  map[string]int
	count int
}

// Filter implements Filter.
func (f *BM25) Filter(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML, err
	}

	query := f.Query
	if strings.TrimSpace(query) == "" {
		query = derivePageQuery(doc)
	}
	queryTokens := tokenize(query)

	blocks := chunkBlocks(doc)
	if len(blocks) == 0 || len(queryTokens) == 0 {
		return rawHTML, nil
	}

	scores := scoreBlocks(blocks, queryTokens, f.k1(), f.b())

	threshold := f.ScoreThreshold
	if threshold == 0 {
		threshold = 1.0
	}

	var kept []string
	for i, b := range blocks {
		if scores[i] >= threshold {
			kept = append(kept, b.html)
		}
	}
	if len(kept) == 0 {
		return "", nil
	}
	return strings.Join(kept, "\n"), nil
}

func (f *BM25) k1() float64 {
	if f.K1 == 0 {
		return 1.2
	}
	return f.K1
}

func (f *BM25) b() float64 {
	if f.B == 0 {
		return 0.75
	}
	return f.B
}

// derivePageQuery builds a synthetic query from the page's own title, meta
// description, and meta keywords when the caller supplied none.
func derivePageQuery(doc *goquery.Document) string {
	var parts []string
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, title)
	}
	doc.Find(`meta[name="description"]`).Each(func(_ int, s *goquery.Selection) {
		if c, ok := s.Attr("content"); ok && c != "" {
			parts = append(parts, c)
		}
	})
	doc.Find(`meta[name="keywords"]`).Each(func(_ int, s *goquery.Selection) {
		if c, ok := s.Attr("content"); ok && c != "" {
			parts = append(parts, c)
		}
	})
	return strings.Join(parts, " ")
}

// chunkBlocks walks the body in document order and collects every
// block-level element as a chunk, respecting tag boundaries (a chunk is
// never split across an element boundary).
func chunkBlocks(doc *goquery.Document) []block {
	body := doc.Find("body")
	if body.Length() == 0 {
		return nil
	}

	var blocks []block
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Children().Each(func(_ int, child *goquery.Selection) {
			if blockTags[goquery.NodeName(child)] {
				text := strings.TrimSpace(child.Text())
				if text == "" {
					return
				}
				html, err := goquery.OuterHtml(child)
				if err != nil {
					return
				}
				tokens := tokenize(text)
				blocks = append(blocks, block{
					html:  html,
					text:  text,
					freq:  termFreq(tokens),
					count: len(tokens),
				})
				return
			}
			walk(child)
		})
	}
	walk(body)
	return blocks
}

// scoreBlocks ranks each block against queryTokens using the Okapi BM25
// formula, with IDF computed over the block corpus itself.
func scoreBlocks(blocks []block, queryTokens []string, k1, b float64) []float64 {
	n := len(blocks)
	var totalLen int
	for _, blk := range blocks {
		totalLen += blk.count
	}
	avgdl := float64(totalLen) / float64(n)
	if avgdl == 0 {
		avgdl = 1
	}

	docFreq := make(map[string]int)
	uniqueQueryTerms := make(map[string]struct{})
	for _, term := range queryTokens {
		uniqueQueryTerms[term] = struct{}{}
	}
	for term := range uniqueQueryTerms {
		for _, blk := range blocks {
			if blk.freq[term] > 0 {
				docFreq[term]++
			}
		}
	}

	scores := make([]float64, n)
	for i, blk := range blocks {
		var score float64
		for term := range uniqueQueryTerms {
			tf := float64(blk.freq[term])
			if tf == 0 {
				continue
			}
			idf := math.Log(1 + (float64(n)-float64(docFreq[term])+0.5)/(float64(docFreq[term])+0.5))
			denom := tf + k1*(1-b+b*float64(blk.count)/avgdl)
			score += idf * (tf * (k1 + 1)) / denom
		}
		scores[i] = score
	}
	return scores
}
