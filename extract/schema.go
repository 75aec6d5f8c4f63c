package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field describes one value to pull out of a matched element: either its
// text content (Attr == "") or a named attribute.
type Field struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
	Attr     string `json:"attr,omitempty"`
}

// Schema describes a structured extraction: when BaseSelector is set, every
// element it matches becomes one record (a repeating list, e.g. search
// results or product cards); when empty, a single record is built from the
// whole document.
type Schema struct {
	BaseSelector string  `json:"baseSelector,omitempty"`
	Fields       []Field `json:"fields"`
}

// CSSSchema extracts structured records from HTML using CSS selectors,
// generalized from the teacher's cleaner/extract.go goquery usage (OG
// metadata/link/image extraction were themselves hard-coded selector
// schemas; this generalizes that pattern to caller-supplied schemas).
type CSSSchema struct {
	Schema Schema
}

// NewCSSSchema returns a CSSSchema strategy for the given schema.
func NewCSSSchema(schema Schema) *CSSSchema {
	return &CSSSchema{Schema: schema}
}

// Extract implements Strategy. The url parameter is accepted for interface
// symmetry with other strategies (e.g. LLM-backed ones, out of scope here)
// that resolve relative references against it; CSSSchema doesn't need it.
func (s *CSSSchema) Extract(_ string, rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	if s.Schema.BaseSelector == "" {
		record := extractRecord(doc.Selection, s.Schema.Fields)
		out, err := json.Marshal(record)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	var records []map[string]string
	doc.Find(s.Schema.BaseSelector).Each(func(_ int, sel *goquery.Selection) {
		records = append(records, extractRecord(sel, s.Schema.Fields))
	})

	out, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func extractRecord(scope *goquery.Selection, fields []Field) map[string]string {
	record := make(map[string]string, len(fields))
	for _, f := range fields {
		target := scope
		if f.Selector != "" && f.Selector != "." {
			target = scope.Find(f.Selector)
		}
		if target.Length() == 0 {
			continue
		}
		if f.Attr == "" {
			record[f.Name] = strings.TrimSpace(target.First().Text())
			continue
		}
		if v, ok := target.First().Attr(f.Attr); ok {
			record[f.Name] = v
		}
	}
	return record
}
