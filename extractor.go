package pagecrawl

// ContentExtractor selects the primary content region of a page.
type ContentExtractor interface {
	// ExtractContent returns the inner HTML of the first element matching
	// the earliest selector in the list that matches anything.
	// It returns an empty string when no selector matches.
	ExtractContent(html string, selectors []string) (string, error)
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	ContentHTML string
}

// Extractor finds main content heuristically, without selectors.
// It serves as a fallback when no configured selector matches.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
