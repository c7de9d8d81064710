package pagecrawl

import "context"

// Page is a converted page ready to be persisted.
type Page struct {
	URL     string
	Title   string
	Content string // Markdown
}

// ArtifactWriter persists converted pages.
type ArtifactWriter interface {
	// Save writes the page to a location derived from its URL and returns
	// that location. Saving the same URL twice overwrites the first write.
	// Failures are reported with the EWRITE code.
	Save(ctx context.Context, page *Page) (path string, err error)
}
