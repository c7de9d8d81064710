package crawl_test

import (
	"testing"

	"github.com/fwojciec/pagecrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absolute", "https://example.com/a/b", "https://example.com/a/b"},
		{"relative", "c/d", "https://example.com/docs/c/d"},
		{"root relative", "/x", "https://example.com/x"},
		{"strips fragment", "/a#intro", "https://example.com/a"},
		{"strips trailing slash", "/a/b/", "https://example.com/a/b"},
		{"keeps root slash", "https://example.com/", "https://example.com/"},
		{"empty path becomes root", "https://example.com", "https://example.com/"},
		{"lower-cases host", "https://EXAMPLE.com/A", "https://example.com/A"},
		{"drops default https port", "https://example.com:443/a", "https://example.com/a"},
		{"drops default http port", "http://example.com:80/a", "http://example.com/a"},
		{"keeps other port", "https://example.com:8443/a", "https://example.com:8443/a"},
		{"keeps query", "/search?q=go", "https://example.com/search?q=go"},
		{"resolves dot segments", "../up", "https://example.com/up"},
	}

	base := mustParse(t, "https://example.com/docs/")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := crawl.NormalizeURL(base, tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNormalizeURL_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := crawl.NormalizeURL(nil, "http://[::1")

	assert.Error(t, err)
}

func TestDiscoverLinks(t *testing.T) {
	t.Parallel()

	origin := mustParse(t, "https://example.com")

	t.Run("resolves relative links against the page URL", func(t *testing.T) {
		t.Parallel()

		links := crawl.DiscoverLinks(origin, "https://example.com/docs/guide", []string{"intro", "/api", "../about"})

		assert.Equal(t, []string{
			"https://example.com/docs/intro",
			"https://example.com/api",
			"https://example.com/about",
		}, links)
	})

	t.Run("drops off-origin links", func(t *testing.T) {
		t.Parallel()

		links := crawl.DiscoverLinks(origin, "https://example.com/", []string{
			"https://other.com/x",
			"http://example.com/insecure",
			"https://sub.example.com/y",
			"/kept",
		})

		assert.Equal(t, []string{"https://example.com/kept"}, links)
	})

	t.Run("strips fragments and removes duplicates", func(t *testing.T) {
		t.Parallel()

		links := crawl.DiscoverLinks(origin, "https://example.com/", []string{
			"/a#one", "/a#two", "/a", "/a/", "/b",
		})

		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, links)
	})

	t.Run("skips non-HTTP links", func(t *testing.T) {
		t.Parallel()

		links := crawl.DiscoverLinks(origin, "https://example.com/", []string{
			"javascript:void(0)", "mailto:a@example.com", "tel:123", "data:text/plain,hi", "",
		})

		assert.Empty(t, links)
	})

	t.Run("falls back to origin for unusable page URL", func(t *testing.T) {
		t.Parallel()

		links := crawl.DiscoverLinks(origin, "", []string{"page"})

		assert.Equal(t, []string{"https://example.com/page"}, links)
	})
}
