// Package extract implements pluggable structured-extraction strategies
// (spec.md §4 "Extraction strategies" / REDESIGN FLAGS duck-typed-classes
// replacement): a capability-per-component interface rather than a class
// hierarchy, dispatched by variant name from runcfg.RunConfig.
package extract

// Strategy turns HTML (or a set of pre-chunked text blocks) for a given URL
// into structured, typically JSON-serializable content.
type Strategy interface {
	Extract(url, html string) (string, error)
}

// Chunker splits text into an ordered sequence of chunks. FixedTokenChunker
// implements it; CSSSchema and the BM25 content filter do not call it.
type Chunker interface {
	Chunk(text string) []string
}
