package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/mock"
	pcslog "github.com/fwojciec/pagecrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs the number of URLs found", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
				return []string{baseURL + "/a", baseURL + "/b", baseURL + "/c"}, nil
			},
		}

		svc := pcslog.NewLoggingSitemapService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		urls, err := svc.DiscoverURLs(context.Background(), "https://docs.example.org")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://docs.example.org/a",
			"https://docs.example.org/b",
			"https://docs.example.org/c",
		}, urls)
		assert.Contains(t, buf.String(), "msg=\"sitemap discovery\"")
		assert.Contains(t, buf.String(), "url=https://docs.example.org")
		assert.Contains(t, buf.String(), "count=3")
	})

	t.Run("passes errors through unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
				return nil, pagecrawl.Errorf(pagecrawl.ENOTFOUND, "HTTP 404 for %s/sitemap.xml", baseURL)
			},
		}

		svc := pcslog.NewLoggingSitemapService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := svc.DiscoverURLs(context.Background(), "https://docs.example.org")

		assert.Equal(t, pagecrawl.ENOTFOUND, pagecrawl.ErrorCode(err))
		assert.Contains(t, buf.String(), "count=0")
		assert.Contains(t, buf.String(), "err=\"HTTP 404 for https://docs.example.org/sitemap.xml\"")
	})
}
