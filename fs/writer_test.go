package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"simple path", "https://example.com/a/b", filepath.Join("a", "b.md")},
		{"single segment", "https://example.com/docs", "docs.md"},
		{"trailing slash is ignored", "https://example.com/docs/", "docs.md"},
		{"root path becomes index", "https://example.com/", "index.md"},
		{"root without trailing slash", "https://example.com", "index.md"},
		{"ignores query string", "https://example.com/docs/api?version=2", filepath.Join("docs", "api.md")},
		{"ignores fragment", "https://example.com/docs/api#section", filepath.Join("docs", "api.md")},
		{"collapses empty segments", "https://example.com//a///b", filepath.Join("a", "b.md")},
		{"drops dot segments", "https://example.com/./a/../b", filepath.Join("a", "b.md")},
		{"only dot segments becomes index", "https://example.com/../..", "index.md"},
		{"deep nesting", "https://example.com/a/b/c/d/e/f", filepath.Join("a", "b", "c", "d", "e", "f.md")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("returns error for unparseable URL", func(t *testing.T) {
		t.Parallel()

		_, err := fs.URLToPath("http://[::1")

		require.Error(t, err)
		assert.Equal(t, pagecrawl.EINVALID, pagecrawl.ErrorCode(err))
	})
}

func TestFormatPage(t *testing.T) {
	t.Parallel()

	page := &pagecrawl.Page{
		URL:     "https://example.com/docs/api",
		Title:   "API Reference",
		Content: "# API Reference\n\nThis is the API documentation.",
	}

	got, err := fs.FormatPage(page, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	want := `---
source: https://example.com/docs/api
title: API Reference
crawled: 2025-01-08T00:00:00Z
---

# API Reference

This is the API documentation.`
	assert.Equal(t, want, string(got))
}

func TestWriter_Save(t *testing.T) {
	t.Parallel()

	var _ pagecrawl.ArtifactWriter = fs.NewWriter("")

	t.Run("writes content to the path derived from the URL", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		w := fs.NewWriter(root)

		path, err := w.Save(context.Background(), &pagecrawl.Page{
			URL:     "https://example.com/a/b",
			Content: "# B",
		})

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "a", "b.md"), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# B", string(content))
	})

	t.Run("overwrites on second save", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		w := fs.NewWriter(root)
		page := &pagecrawl.Page{URL: "https://example.com/a/b", Content: "first"}

		_, err := w.Save(context.Background(), page)
		require.NoError(t, err)

		page.Content = "second"
		path, err := w.Save(context.Background(), page)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(content))

		entries, err := os.ReadDir(filepath.Join(root, "a"))
		require.NoError(t, err)
		require.Len(t, entries, 1, "no temporary files left behind")
		assert.Equal(t, "b.md", entries[0].Name())
	})

	t.Run("writes root page to index.md", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		path, err := fs.NewWriter(root).Save(context.Background(), &pagecrawl.Page{
			URL:     "https://example.com/",
			Content: "home",
		})

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "index.md"), path)
	})

	t.Run("writes frontmatter when enabled", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		w := fs.NewWriter(root)
		w.Frontmatter = true
		w.Now = func() time.Time { return time.Date(2025, 1, 8, 12, 30, 0, 0, time.UTC) }

		path, err := w.Save(context.Background(), &pagecrawl.Page{
			URL:     "https://example.com/guide",
			Title:   "Setup Guide",
			Content: "Body",
		})
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "---\nsource: https://example.com/guide\ntitle: Setup Guide\ncrawled: 2025-01-08T12:30:00Z\n---\n\nBody", string(content))
	})

	t.Run("returns EWRITE when the root is not writable", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		blocker := filepath.Join(root, "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		_, err := fs.NewWriter(blocker).Save(context.Background(), &pagecrawl.Page{
			URL:     "https://example.com/a",
			Content: "x",
		})

		require.Error(t, err)
		assert.Equal(t, pagecrawl.EWRITE, pagecrawl.ErrorCode(err))
	})

	t.Run("rejects page without URL", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewWriter(t.TempDir()).Save(context.Background(), &pagecrawl.Page{Content: "x"})

		require.Error(t, err)
		assert.Equal(t, pagecrawl.EINVALID, pagecrawl.ErrorCode(err))
	})
}
