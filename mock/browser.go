package mock

import (
	"context"

	"github.com/fwojciec/pagecrawl"
)

var _ pagecrawl.Browser = (*Browser)(nil)

// Browser is a mock implementation of pagecrawl.Browser.
type Browser struct {
	NavigateFn func(ctx context.Context, url string) (*pagecrawl.Snapshot, error)
	CloseFn    func() error
}

func (b *Browser) Navigate(ctx context.Context, url string) (*pagecrawl.Snapshot, error) {
	return b.NavigateFn(ctx, url)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
