package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagecrawl"
)

var _ pagecrawl.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with debug logging of every navigation.
type LoggingBrowser struct {
	next   pagecrawl.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next pagecrawl.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Navigate delegates to the wrapped browser and logs the operation.
func (b *LoggingBrowser) Navigate(ctx context.Context, url string) (snap *pagecrawl.Snapshot, err error) {
	defer func(begin time.Time) {
		var size, links int
		if snap != nil {
			size = len(snap.HTML)
			links = len(snap.Links)
		}
		b.logger.Debug("navigate",
			"url", url,
			"bytes", size,
			"links", links,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Navigate(ctx, url)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	err := b.next.Close()
	if err != nil {
		b.logger.Warn("closing browser", "err", err)
	}
	return err
}
