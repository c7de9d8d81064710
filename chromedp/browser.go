// Package chromedp renders pages in headless Chrome via the DevTools
// protocol, as an alternative to the rod backend.
package chromedp

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/pagecrawl"
)

// Ensure Browser implements pagecrawl.Browser at compile time.
var _ pagecrawl.Browser = (*Browser)(nil)

const linksJS = `Array.from(document.querySelectorAll('a[href]'), a => a.href)`

// Config controls the headless browser.
type Config struct {
	UserAgent      string
	AcceptLanguage string
	ExecPath       string
	NoSandbox      bool
}

// Browser opens one tab per navigation in a shared Chrome process.
// Browser is safe for concurrent use.
type Browser struct {
	cfg         Config
	allocCtx    context.Context
	allocCancel context.CancelFunc

	// root keeps the browser process alive between navigations.
	root       context.Context
	rootCancel context.CancelFunc

	closeOnce sync.Once
}

// NewBrowser starts headless Chrome.
func NewBrowser(cfg Config) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	root, rootCancel := chromedp.NewContext(allocCtx)

	// The first Run on the root context launches the browser.
	if err := chromedp.Run(root); err != nil {
		rootCancel()
		allocCancel()
		return nil, pagecrawl.WrapError(pagecrawl.EINTERNAL, err, "launching browser")
	}

	return &Browser{
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		root:        root,
		rootCancel:  rootCancel,
	}, nil
}

// Navigate opens url in a new tab and returns the rendered DOM.
func (b *Browser) Navigate(ctx context.Context, url string) (*pagecrawl.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.root.Err() != nil {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "browser is closed")
	}

	tabCtx, tabCancel := chromedp.NewContext(b.root)
	defer tabCancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var (
		html     string
		title    string
		finalURL string
		links    []string
	)
	err := chromedp.Run(tabCtx,
		b.setupAction(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate(linksJS, &links),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "navigating to %s", url)
	}

	if finalURL == "" {
		finalURL = url
	}
	return &pagecrawl.Snapshot{
		URL:   finalURL,
		Title: title,
		HTML:  html,
		Links: links,
	}, nil
}

func (b *Browser) setupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if b.cfg.UserAgent == "" {
			return nil
		}
		override := emulation.SetUserAgentOverride(b.cfg.UserAgent)
		if b.cfg.AcceptLanguage != "" {
			override = override.WithAcceptLanguage(b.cfg.AcceptLanguage)
		}
		return override.Do(ctx)
	})
}

// Close shuts down the browser. Close is safe to call multiple times.
func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		b.rootCancel()
		b.allocCancel()
	})
	return nil
}
