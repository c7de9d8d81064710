package readability_test

import (
	"testing"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pagecrawl.Extractor = (*readability.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, pagecrawl.EINVALID, pagecrawl.ErrorCode(err))
	})

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Page Title</title></head>
<body><article><p>Content</p></article></body>
</html>`

		result, err := readability.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Page Title", result.Title)
	})

	t.Run("keeps body text and drops navigation", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Guide</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<div class="post-body">
<h2>Installing</h2>
<p>This is the main guide content that explains how to install and configure the crawler for a documentation site.</p>
<ul><li>Download the binary</li><li>Run the crawl</li></ul>
<p>Use <code>--depth</code> to limit how far links are followed from the start page.</p>
</div>
</body>
</html>`

		result, err := readability.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "main guide content")
		assert.Contains(t, result.ContentHTML, "<li>Download the binary</li>")
		assert.Contains(t, result.ContentHTML, "<code>--depth</code>")
		assert.NotContains(t, result.ContentHTML, "Home Nav Link")
	})
}
