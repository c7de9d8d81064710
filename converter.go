package pagecrawl

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be the content region selected by a ContentExtractor.
	Convert(html string) (string, error)
}
