package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pagecrawl.Extractor = (*trafilatura.Extractor)(nil)

// unmarkedPage has no element matched by the default content selectors.
const unmarkedPage = `<!DOCTYPE html>
<html>
<head>
<title>Release Notes - Example</title>
<meta property="og:title" content="Release Notes">
</head>
<body>
<div class="site-header">
<ul class="menu"><li><a href="/">Home</a></li><li><a href="/about">About</a></li></ul>
</div>
<div class="post-body">
<h1>Release Notes</h1>
<p>Version two introduces a new crawl scheduler with bounded concurrency and per-URL retries.</p>
<p>Pages are written as Markdown files that mirror the site's URL structure on disk.</p>
<pre><code>pagecrawl https://example.com --depth 2</code></pre>
</div>
<div class="site-footer"><p>Copyright 2025 Example Corp</p></div>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts content from pages without semantic containers", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(unmarkedPage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "bounded concurrency")
		assert.Contains(t, result.ContentHTML, "mirror the site")
	})

	t.Run("extracts title from metadata", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(unmarkedPage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers of the documentation.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "substantive content")
		assert.NotContains(t, result.ContentHTML, "Copyright 2024 Example Corp")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("   ")

		require.Error(t, err)
		assert.Equal(t, pagecrawl.EINVALID, pagecrawl.ErrorCode(err))
	})
}
