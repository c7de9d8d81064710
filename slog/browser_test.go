package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/mock"
	pcslog "github.com/fwojciec/pagecrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingBrowser_Navigate(t *testing.T) {
	t.Parallel()

	t.Run("logs navigation with bytes, links and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Browser{
			NavigateFn: func(ctx context.Context, url string) (*pagecrawl.Snapshot, error) {
				return &pagecrawl.Snapshot{
					URL:   url,
					HTML:  "<html>content</html>",
					Links: []string{"/a", "/b", "/c"},
				}, nil
			},
		}

		browser := pcslog.NewLoggingBrowser(inner, debugLogger(&buf))
		snap, err := browser.Navigate(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", snap.HTML)
		output := buf.String()
		assert.Contains(t, output, "navigate")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "links=3")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Browser{
			NavigateFn: func(ctx context.Context, url string) (*pagecrawl.Snapshot, error) {
				return nil, errors.New("net::ERR_CONNECTION_REFUSED")
			},
		}

		browser := pcslog.NewLoggingBrowser(inner, debugLogger(&buf))
		_, err := browser.Navigate(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "bytes=0")
		assert.Contains(t, output, "err=net::ERR_CONNECTION_REFUSED")
	})

	t.Run("stays quiet above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Browser{
			NavigateFn: func(ctx context.Context, url string) (*pagecrawl.Snapshot, error) {
				return &pagecrawl.Snapshot{URL: url}, nil
			},
		}

		browser := pcslog.NewLoggingBrowser(inner, logger)
		_, err := browser.Navigate(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingBrowser_Close(t *testing.T) {
	t.Parallel()

	t.Run("delegates close", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var closed bool
		inner := &mock.Browser{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}

		err := pcslog.NewLoggingBrowser(inner, debugLogger(&buf)).Close()

		require.NoError(t, err)
		assert.True(t, closed)
		assert.Empty(t, buf.String())
	})

	t.Run("logs close failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Browser{
			CloseFn: func() error { return errors.New("already closed") },
		}

		err := pcslog.NewLoggingBrowser(inner, debugLogger(&buf)).Close()

		require.Error(t, err)
		assert.Contains(t, buf.String(), "closing browser")
		assert.Contains(t, buf.String(), "err=\"already closed\"")
	})
}
