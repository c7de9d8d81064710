// Package trafilatura provides a boilerplate-removing fallback extractor
// for pages where no configured selector matches.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/pagecrawl"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagecrawl.Extractor at compile time.
var _ pagecrawl.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
			IncludeLinks:    true,
		},
	}
}

// Extract returns the main content of rawHTML as HTML, with navigation,
// sidebars and footers removed.
func (e *Extractor) Extract(rawHTML string) (*pagecrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, pagecrawl.WrapError(pagecrawl.ENOTFOUND, err, "no main content")
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &pagecrawl.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
