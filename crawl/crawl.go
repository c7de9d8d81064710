// Package crawl provides crawl orchestration: the URL frontier, the bounded
// worker pool that drains it, the per-URL retry policy and the pipeline that
// turns a rendered page into a saved Markdown artifact.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/pagecrawl"
	"golang.org/x/sync/errgroup"
)

// WorkQueue is a frontier that can signal state changes to idle workers.
type WorkQueue interface {
	pagecrawl.Frontier

	// Changed returns a channel closed on the next admission or release.
	Changed() <-chan struct{}
}

// Scheduler drains a frontier with a fixed pool of workers. Each worker
// navigates to a URL, extracts and converts its content, saves the result
// and feeds the page's links back into the frontier.
type Scheduler struct {
	Config    *pagecrawl.Config
	Browser   pagecrawl.Browser
	Extractor pagecrawl.ContentExtractor
	Converter pagecrawl.Converter
	Writer    pagecrawl.ArtifactWriter

	// Optional collaborators.
	Fallback pagecrawl.Extractor
	Limiter  pagecrawl.RateLimiter
	Visits   pagecrawl.VisitService
	RunID    string
	Logger   *slog.Logger
	Progress ProgressFunc

	// RetryDelays overrides the backoff derived from Config.RetryBackoff.
	RetryDelays []time.Duration

	progressMu sync.Mutex
	completed  int
}

// Result holds the outcome of a crawl run.
type Result struct {
	Saved  int
	Empty  int
	Failed int
	Bytes  int
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	URL       string
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressSaved
	ProgressEmpty
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// Calls are serialized by the Scheduler.
type ProgressFunc func(event ProgressEvent)

// outcome is the terminal state of one WorkItem.
type outcome struct {
	status   pagecrawl.VisitStatus
	path     string
	hash     string
	bytes    int
	links    []string
	attempts int
	err      error
}

type counters struct {
	saved, empty, failed, bytes atomic.Int64
}

// Run drains the queue and returns once it is empty with nothing in flight,
// or when ctx is canceled. The queue must already hold the seed URLs.
// Per-URL failures never fail the run; the returned error is non-nil only
// on cancellation, in which case the partial result is returned as well.
func (s *Scheduler) Run(ctx context.Context, queue WorkQueue) (*Result, error) {
	concurrency := s.Config.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	s.progress(ProgressEvent{Type: ProgressStarted})

	var c counters
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			return s.work(gctx, queue, &c)
		})
	}
	err := g.Wait()

	result := &Result{
		Saved:  int(c.saved.Load()),
		Empty:  int(c.empty.Load()),
		Failed: int(c.failed.Load()),
		Bytes:  int(c.bytes.Load()),
	}

	s.progress(ProgressEvent{Type: ProgressFinished})

	return result, err
}

// work is the worker loop: take an item, process it, release it, repeat
// until the queue is drained.
func (s *Scheduler) work(ctx context.Context, queue WorkQueue, c *counters) error {
	for {
		changed := queue.Changed()
		item, ok := queue.Next()
		if !ok {
			if queue.IsDrained() {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-changed:
				continue
			}
		}

		out, skipped := s.process(ctx, item)
		if ctx.Err() != nil {
			queue.Done(item)
			return ctx.Err()
		}
		if !skipped {
			s.finish(ctx, item, out, c)
			if out.err == nil {
				for _, link := range out.links {
					queue.Admit(link, item.Depth+1)
				}
			}
		}
		queue.Done(item)
	}
}

// process runs the pipeline for one item, retrying it in place.
// Items deeper than the configured limit are skipped without navigation.
func (s *Scheduler) process(ctx context.Context, item pagecrawl.WorkItem) (outcome, bool) {
	if item.Depth > s.Config.MaxDepth {
		return outcome{}, true
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = BackoffDelays(s.Config.RetryBackoff, s.Config.MaxAttempts)
	}

	var out outcome
	attempts, err := Retry(ctx, s.Config.MaxAttempts, delays,
		func(ctx context.Context, _ int) error {
			var err error
			out, err = s.attempt(ctx, item)
			return err
		},
		func(attempt int, delay time.Duration, err error) {
			s.logger().Warn("retrying",
				"url", item.URL,
				"attempt", attempt,
				"delay", delay,
				"err", err,
			)
		},
	)
	if err != nil {
		return outcome{status: pagecrawl.VisitFailed, attempts: attempts, err: err}, false
	}
	out.attempts = attempts
	return out, false
}

// attempt performs a single fetch → extract → convert → write → discover pass.
func (s *Scheduler) attempt(ctx context.Context, item pagecrawl.WorkItem) (outcome, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return outcome{}, err
		}
	}

	navCtx := ctx
	if s.Config.Timeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, s.Config.Timeout)
		defer cancel()
	}

	snap, err := s.Browser.Navigate(navCtx, item.URL)
	if err != nil {
		if pagecrawl.ErrorCode(err) == pagecrawl.EINTERNAL {
			err = pagecrawl.WrapError(pagecrawl.ENAVIGATION, err, "navigating to %s", item.URL)
		}
		return outcome{}, err
	}

	content, err := s.Extractor.ExtractContent(snap.HTML, s.Config.Selectors)
	if err != nil {
		return outcome{}, fmt.Errorf("extracting content: %w", err)
	}

	title := snap.Title
	if strings.TrimSpace(content) == "" && s.Fallback != nil {
		res, err := s.Fallback.Extract(snap.HTML)
		if err != nil {
			s.logger().Debug("fallback extraction", "url", item.URL, "err", err)
		} else if res != nil {
			content = res.ContentHTML
			if res.Title != "" {
				title = res.Title
			}
		}
	}

	out := outcome{status: pagecrawl.VisitEmpty}
	if strings.TrimSpace(content) != "" {
		markdown, err := s.Converter.Convert(content)
		if err != nil {
			return outcome{}, fmt.Errorf("converting to markdown: %w", err)
		}

		path, err := s.Writer.Save(ctx, &pagecrawl.Page{
			URL:     item.URL,
			Title:   title,
			Content: markdown,
		})
		if err != nil {
			if pagecrawl.ErrorCode(err) == pagecrawl.EINTERNAL {
				err = pagecrawl.WrapError(pagecrawl.EWRITE, err, "saving %s", item.URL)
			}
			return outcome{}, err
		}

		out = outcome{
			status: pagecrawl.VisitSaved,
			path:   path,
			hash:   computeHash(markdown),
			bytes:  len(markdown),
		}
	}

	pageURL := snap.URL
	if pageURL == "" {
		pageURL = item.URL
	}
	out.links = DiscoverLinks(s.Config.Origin(), pageURL, snap.Links)

	return out, nil
}

// finish counts, logs, reports and records the terminal outcome of an item.
func (s *Scheduler) finish(ctx context.Context, item pagecrawl.WorkItem, out outcome, c *counters) {
	logger := s.logger()
	event := ProgressEvent{URL: item.URL, Path: out.path, Error: out.err}

	switch out.status {
	case pagecrawl.VisitFailed:
		c.failed.Add(1)
		event.Type = ProgressFailed
		logger.Error("crawl failed",
			"url", item.URL,
			"depth", item.Depth,
			"attempts", out.attempts,
			"err", out.err,
		)
	case pagecrawl.VisitSaved:
		c.saved.Add(1)
		c.bytes.Add(int64(out.bytes))
		event.Type = ProgressSaved
		logger.Info("saved",
			"url", item.URL,
			"depth", item.Depth,
			"path", out.path,
			"links", len(out.links),
		)
	default:
		c.empty.Add(1)
		event.Type = ProgressEmpty
		logger.Info("no content",
			"url", item.URL,
			"depth", item.Depth,
			"links", len(out.links),
		)
	}

	s.progress(event)
	s.record(ctx, item, out)
}

// record stores the outcome in the manifest, if one is configured.
func (s *Scheduler) record(ctx context.Context, item pagecrawl.WorkItem, out outcome) {
	if s.Visits == nil {
		return
	}
	visit := &pagecrawl.Visit{
		RunID:       s.RunID,
		URL:         item.URL,
		Depth:       item.Depth,
		Path:        out.path,
		ContentHash: out.hash,
		Status:      out.status,
		Attempts:    out.attempts,
	}
	if out.err != nil {
		visit.Error = out.err.Error()
	}
	if err := s.Visits.RecordVisit(ctx, visit); err != nil {
		s.logger().Warn("recording visit", "url", item.URL, "err", err)
	}
}

func (s *Scheduler) progress(event ProgressEvent) {
	if s.Progress == nil {
		return
	}
	s.progressMu.Lock()
	defer s.progressMu.Unlock()

	switch event.Type {
	case ProgressSaved, ProgressEmpty, ProgressFailed:
		s.completed++
	}
	event.Completed = s.completed
	s.Progress(event)
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
