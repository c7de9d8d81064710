// Package readability provides a Mozilla Readability fallback extractor.
package readability

import (
	"strings"

	"github.com/fwojciec/pagecrawl"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pagecrawl.Extractor at compile time.
var _ pagecrawl.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readable article content of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*pagecrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, pagecrawl.WrapError(pagecrawl.ENOTFOUND, err, "no readable content")
	}

	return &pagecrawl.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
