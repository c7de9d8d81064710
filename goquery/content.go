// Package goquery implements HTML queries on top of PuerkitoBio/goquery:
// selector-based content extraction and anchor extraction.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/pagecrawl"
)

// Compile-time interface verification.
var _ pagecrawl.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor selects a page's main content with an ordered list of
// CSS selectors.
type ContentExtractor struct{}

// NewContentExtractor creates a new ContentExtractor.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// ExtractContent returns the inner HTML of the first element matched by the
// first selector that matches anything. Selectors are tried in list order;
// selectors that do not compile are skipped. An empty string means no
// selector matched.
func (e *ContentExtractor) ExtractContent(html string, selectors []string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", pagecrawl.Errorf(pagecrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, selector := range selectors {
		matcher, err := cascadia.Compile(selector)
		if err != nil {
			continue
		}
		sel := doc.FindMatcher(matcher)
		if sel.Length() == 0 {
			continue
		}
		content, err := sel.First().Html()
		if err != nil {
			return "", pagecrawl.Errorf(pagecrawl.EINTERNAL, "failed to render %q: %v", selector, err)
		}
		return content, nil
	}

	return "", nil
}
