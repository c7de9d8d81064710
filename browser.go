package pagecrawl

import "context"

// Snapshot is the rendered state of a page after navigation.
type Snapshot struct {
	// URL is the final URL after redirects.
	URL string

	// Title is the document title, if any.
	Title string

	// HTML is the serialized DOM.
	HTML string

	// Links holds the href targets of every anchor on the page,
	// as reported by the backend. They may be relative.
	Links []string
}

// Browser renders pages through a browser automation backend.
type Browser interface {
	// Navigate loads the URL and returns the rendered DOM and its links.
	// The context carries the navigation timeout. Failures are reported
	// with the ENAVIGATION code.
	Navigate(ctx context.Context, url string) (*Snapshot, error)

	// Close releases backend resources.
	Close() error
}
