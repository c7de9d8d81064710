package mock

import (
	"context"

	"github.com/fwojciec/pagecrawl"
)

var _ pagecrawl.Frontier = (*Frontier)(nil)

// Frontier is a mock implementation of pagecrawl.Frontier.
// It also provides the Changed signal of crawl.WorkQueue.
type Frontier struct {
	AdmitFn     func(url string, depth int) bool
	NextFn      func() (pagecrawl.WorkItem, bool)
	DoneFn      func(item pagecrawl.WorkItem)
	IsDrainedFn func() bool
	ChangedFn   func() <-chan struct{}
}

func (f *Frontier) Admit(url string, depth int) bool {
	return f.AdmitFn(url, depth)
}

func (f *Frontier) Next() (pagecrawl.WorkItem, bool) {
	return f.NextFn()
}

func (f *Frontier) Done(item pagecrawl.WorkItem) {
	f.DoneFn(item)
}

func (f *Frontier) IsDrained() bool {
	return f.IsDrainedFn()
}

func (f *Frontier) Changed() <-chan struct{} {
	return f.ChangedFn()
}

var _ pagecrawl.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of pagecrawl.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *RateLimiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
