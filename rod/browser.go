// Package rod renders pages in headless Chrome via go-rod.
package rod

import (
	"context"

	"github.com/fwojciec/pagecrawl"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Browser implements pagecrawl.Browser at compile time.
var _ pagecrawl.Browser = (*Browser)(nil)

// linksJS collects the resolved href of every anchor in the rendered DOM.
const linksJS = `() => Array.from(document.querySelectorAll('a[href]'), a => a.href)`

// Browser navigates pages in a recycled headless Chrome instance.
// Each navigation gets its own tab. Browser is safe for concurrent use.
type Browser struct {
	manager        *BrowserManager
	userAgent      string
	acceptLanguage string
}

// Option configures a Browser.
type Option func(*browserOptions)

type browserOptions struct {
	userAgent      string
	acceptLanguage string
	manager        []ManagerOption
}

// WithUserAgent overrides the User-Agent and Accept-Language of every page.
func WithUserAgent(userAgent, acceptLanguage string) Option {
	return func(o *browserOptions) {
		o.userAgent = userAgent
		o.acceptLanguage = acceptLanguage
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(o *browserOptions) {
		o.manager = append(o.manager, opts...)
	}
}

// NewBrowser launches headless Chrome.
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewBrowser(opts ...Option) (*Browser, error) {
	var o browserOptions
	for _, opt := range opts {
		opt(&o)
	}

	manager, err := NewBrowserManager(o.manager...)
	if err != nil {
		return nil, err
	}

	return &Browser{
		manager:        manager,
		userAgent:      o.userAgent,
		acceptLanguage: o.acceptLanguage,
	}, nil
}

// Navigate opens url in a new tab, waits for the load event and returns the
// rendered HTML together with the anchors present in the DOM.
func (b *Browser) Navigate(ctx context.Context, url string) (*pagecrawl.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lease, err := b.manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	page, err := lease.Browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "opening tab")
	}
	defer page.Close()

	page = page.Context(ctx)

	if b.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      b.userAgent,
			AcceptLanguage: b.acceptLanguage,
		}); err != nil {
			return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "setting user agent")
		}
	}

	if err := page.Navigate(url); err != nil {
		return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "navigating to %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "waiting for %s", url)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "reading %s", url)
	}

	snap := &pagecrawl.Snapshot{URL: url, HTML: html}

	if info, err := page.Info(); err == nil {
		snap.Title = info.Title
		if info.URL != "" {
			snap.URL = info.URL
		}
	}

	res, err := page.Eval(linksJS)
	if err != nil {
		return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "collecting links on %s", url)
	}
	for _, v := range res.Value.Arr() {
		snap.Links = append(snap.Links, v.Str())
	}

	return snap, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (b *Browser) Close() error {
	return b.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	return b.manager.LauncherPID()
}
