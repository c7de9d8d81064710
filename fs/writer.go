// Package fs writes crawled pages to the local filesystem.
package fs

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/pagecrawl"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a page URL to a relative file path.
// Path segments become directories and the last segment becomes a .md file.
// Empty, "." and ".." segments are dropped, so the result never escapes the
// output root. The root path maps to index.md.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pagecrawl.Errorf(pagecrawl.EINVALID, "invalid page URL: %v", err)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}

	if len(segments) == 0 {
		return "index.md", nil
	}

	segments[len(segments)-1] += ".md"
	return filepath.Join(segments...), nil
}

// frontmatter is the YAML header written above page content.
type frontmatter struct {
	Source  string    `yaml:"source"`
	Title   string    `yaml:"title,omitempty"`
	Crawled time.Time `yaml:"crawled"`
}

// FormatPage renders page content, prefixed with YAML frontmatter.
func FormatPage(page *pagecrawl.Page, crawled time.Time) ([]byte, error) {
	header, err := yaml.Marshal(frontmatter{
		Source:  page.URL,
		Title:   page.Title,
		Crawled: crawled.UTC(),
	})
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(page.Content)
	return b.Bytes(), nil
}

// Ensure Writer implements pagecrawl.ArtifactWriter at compile time.
var _ pagecrawl.ArtifactWriter = (*Writer)(nil)

// Writer saves pages as Markdown files under a root directory.
// Saves are atomic: content is written to a temporary file in the target
// directory and renamed over the destination, so readers never observe a
// partial file and saving the same URL twice overwrites the first file.
type Writer struct {
	root string

	// Frontmatter enables the YAML header.
	Frontmatter bool

	// Now returns the crawl timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a new Writer that writes below root.
func NewWriter(root string) *Writer {
	return &Writer{root: root, Now: time.Now}
}

// Save writes the page and returns the path of the written file.
func (w *Writer) Save(ctx context.Context, page *pagecrawl.Page) (string, error) {
	if page == nil || page.URL == "" {
		return "", pagecrawl.Errorf(pagecrawl.EINVALID, "page URL required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(w.root, relPath)

	data := []byte(page.Content)
	if w.Frontmatter {
		now := time.Now
		if w.Now != nil {
			now = w.Now
		}
		if data, err = FormatPage(page, now()); err != nil {
			return "", pagecrawl.WrapError(pagecrawl.EWRITE, err, "formatting %s", fullPath)
		}
	}

	if err := writeFileAtomic(fullPath, data); err != nil {
		return "", pagecrawl.WrapError(pagecrawl.EWRITE, err, "writing %s", fullPath)
	}
	return fullPath, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".pagecrawl-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
