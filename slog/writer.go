package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagecrawl"
)

var _ pagecrawl.ArtifactWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps an ArtifactWriter with debug logging.
type LoggingWriter struct {
	next   pagecrawl.ArtifactWriter
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next pagecrawl.ArtifactWriter, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, logger: logger}
}

// Save delegates to the wrapped writer and logs the operation.
func (w *LoggingWriter) Save(ctx context.Context, page *pagecrawl.Page) (path string, err error) {
	defer func(begin time.Time) {
		var url string
		var size int
		if page != nil {
			url = page.URL
			size = len(page.Content)
		}
		w.logger.Debug("save",
			"url", url,
			"path", path,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.Save(ctx, page)
}
