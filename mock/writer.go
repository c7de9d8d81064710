package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/pagecrawl"
)

var _ pagecrawl.ArtifactWriter = (*ArtifactWriter)(nil)

// ArtifactWriter is a mock implementation of pagecrawl.ArtifactWriter.
type ArtifactWriter struct {
	SaveFn func(ctx context.Context, page *pagecrawl.Page) (string, error)
}

func (w *ArtifactWriter) Save(ctx context.Context, page *pagecrawl.Page) (string, error) {
	return w.SaveFn(ctx, page)
}

// MemoryWriter is an ArtifactWriter that keeps saved pages in memory,
// keyed by URL. It is safe for concurrent use.
type MemoryWriter struct {
	mu    sync.Mutex
	pages map[string]*pagecrawl.Page
	saves int
}

var _ pagecrawl.ArtifactWriter = (*MemoryWriter)(nil)

// NewMemoryWriter creates an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{pages: make(map[string]*pagecrawl.Page)}
}

func (w *MemoryWriter) Save(_ context.Context, page *pagecrawl.Page) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pages[page.URL] = page
	w.saves++
	return page.URL, nil
}

// Pages returns the saved pages keyed by URL.
func (w *MemoryWriter) Pages() map[string]*pagecrawl.Page {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]*pagecrawl.Page, len(w.pages))
	for k, v := range w.pages {
		out[k] = v
	}
	return out
}

// Saves returns the number of Save calls.
func (w *MemoryWriter) Saves() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saves
}
