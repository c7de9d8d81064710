package mock

import "github.com/fwojciec/pagecrawl"

var _ pagecrawl.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of pagecrawl.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(html string, selectors []string) (string, error)
}

func (e *ContentExtractor) ExtractContent(html string, selectors []string) (string, error) {
	return e.ExtractContentFn(html, selectors)
}

var _ pagecrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagecrawl.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*pagecrawl.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*pagecrawl.ExtractResult, error) {
	return e.ExtractFn(html)
}
