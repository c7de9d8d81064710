// Package colly fetches pages over plain HTTP with gocolly, for sites that
// do not need JavaScript rendering.
package colly

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/goquery"
	"github.com/gocolly/colly/v2"
)

// Ensure Browser implements pagecrawl.Browser at compile time.
var _ pagecrawl.Browser = (*Browser)(nil)

// DefaultTimeout bounds a single request when no other timeout is set.
const DefaultTimeout = 30 * time.Second

// Config controls the collector.
type Config struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

// Browser fetches raw HTML without executing scripts.
// Browser is safe for concurrent use.
type Browser struct {
	cfg  Config
	base *colly.Collector
}

// NewBrowser creates a Browser.
func NewBrowser(cfg Config) *Browser {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}

	return &Browser{cfg: cfg, base: c}
}

// Navigate fetches url and returns its HTML, title and anchors.
// Non-2xx responses are navigation errors.
func (b *Browser) Navigate(ctx context.Context, url string) (*pagecrawl.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		snap     = &pagecrawl.Snapshot{URL: url}
		fetchErr error
	)

	c := b.base.Clone()
	c.Context = ctx
	c.OnRequest(func(r *colly.Request) {
		if b.cfg.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", b.cfg.AcceptLanguage)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		snap.URL = r.Request.URL.String()
		snap.HTML = string(r.Body)
		if links, err := goquery.ExtractHrefs(snap.HTML, snap.URL); err == nil {
			snap.Links = links
		}
	})
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if snap.Title == "" {
			snap.Title = strings.TrimSpace(e.Text)
		}
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- c.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, ctx.Err(), "navigating to %s", url)
	case err := <-done:
		if err == nil {
			err = fetchErr
		}
		if err != nil {
			return nil, pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "navigating to %s", url)
		}
		return snap, nil
	}
}

// Close is a no-op; idle connections are released by the transport.
func (b *Browser) Close() error {
	return nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
