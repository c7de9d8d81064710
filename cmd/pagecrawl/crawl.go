package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/crawl"
	"github.com/fwojciec/pagecrawl/fs"
	"github.com/fwojciec/pagecrawl/goquery"
	"github.com/fwojciec/pagecrawl/htmltomarkdown"
	pchttp "github.com/fwojciec/pagecrawl/http"
	"github.com/fwojciec/pagecrawl/readability"
	pcslog "github.com/fwojciec/pagecrawl/slog"
	"github.com/fwojciec/pagecrawl/sqlite"
	"github.com/fwojciec/pagecrawl/trafilatura"
)

// CrawlCmd runs one crawl with a resolved, validated configuration.
type CrawlCmd struct {
	Config     *pagecrawl.Config
	Logger     *slog.Logger
	Stdout     io.Writer
	NewBrowser func(cfg *pagecrawl.Config, logger *slog.Logger) (pagecrawl.Browser, error)

	// HTTPClient fetches robots.txt and sitemaps. Defaults to a client
	// sending the configured user agent.
	HTTPClient *http.Client
}

// Run seeds the frontier, drains it and prints a summary.
// Per-URL failures are reported but do not fail the command.
func (c *CrawlCmd) Run(ctx context.Context) error {
	cfg := c.Config
	logger := c.Logger

	frontier, err := c.newFrontier(ctx)
	if err != nil {
		return err
	}
	if !frontier.Admit(cfg.BaseURL, 0) {
		logger.Warn("base URL not admitted", "url", cfg.BaseURL)
	}
	if cfg.Sitemap {
		c.seedFromSitemaps(ctx, frontier)
	}

	browser, err := c.NewBrowser(cfg, logger)
	if err != nil {
		return pagecrawl.WrapError(pagecrawl.EINTERNAL, err, "starting %s browser", cfg.Backend)
	}
	browser = pcslog.NewLoggingBrowser(browser, logger)
	defer browser.Close()

	writer := fs.NewWriter(cfg.OutputDir)
	writer.Frontmatter = cfg.Frontmatter

	scheduler := &crawl.Scheduler{
		Config:    cfg,
		Browser:   browser,
		Extractor: goquery.NewContentExtractor(),
		Converter: htmltomarkdown.NewConverter(),
		Writer:    pcslog.NewLoggingWriter(writer, logger),
		Limiter:   crawl.NewLimiter(cfg.Delay),
		Logger:    logger,
		Progress:  c.progress,
	}
	switch cfg.Fallback {
	case pagecrawl.FallbackTrafilatura:
		scheduler.Fallback = trafilatura.NewExtractor()
	case pagecrawl.FallbackReadability:
		scheduler.Fallback = readability.NewExtractor()
	}

	var run *pagecrawl.Run
	var visits *sqlite.VisitService
	if cfg.Manifest != "" {
		db := sqlite.NewDB(cfg.Manifest)
		if err := db.Open(); err != nil {
			return fmt.Errorf("opening manifest: %w", err)
		}
		defer db.Close()

		visits = sqlite.NewVisitService(db)
		run = &pagecrawl.Run{BaseURL: cfg.BaseURL}
		if err := visits.CreateRun(ctx, run); err != nil {
			return fmt.Errorf("creating run: %w", err)
		}
		scheduler.Visits = visits
		scheduler.RunID = run.ID
	}

	begin := time.Now()
	result, runErr := scheduler.Run(ctx, frontier)

	if run != nil {
		run.Saved, run.Empty, run.Failed = result.Saved, result.Empty, result.Failed
		// The run context may already be canceled.
		if err := visits.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			logger.Warn("finishing run", "run", run.ID, "err", err)
		}
	}

	fmt.Fprintf(c.Stdout, "Saved %d pages (%s) to %s in %s\n",
		result.Saved, crawl.FormatBytes(result.Bytes), cfg.OutputDir,
		time.Since(begin).Round(time.Millisecond))
	if result.Empty > 0 {
		fmt.Fprintf(c.Stdout, "%d pages had no matching content\n", result.Empty)
	}
	if result.Failed > 0 {
		fmt.Fprintf(c.Stdout, "%d pages failed\n", result.Failed)
	}
	if run != nil {
		fmt.Fprintf(c.Stdout, "Run %s recorded in %s\n", run.ID, cfg.Manifest)
	}

	return runErr
}

// newFrontier builds the frontier with its admission policy.
func (c *CrawlCmd) newFrontier(ctx context.Context) (*crawl.Frontier, error) {
	cfg := c.Config

	opts := []crawl.FrontierOption{crawl.WithMaxItems(cfg.MaxPages)}

	filter, err := pagecrawl.NewURLFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	if filter != nil {
		opts = append(opts, crawl.WithAdmissionFilter(filter))
	}

	if cfg.RespectRobots {
		robots, err := pchttp.FetchRobots(ctx, c.httpClient(), cfg.BaseURL, cfg.UserAgent)
		if err != nil {
			c.Logger.Warn("robots.txt unavailable, crawling without it", "err", err)
		} else {
			opts = append(opts, crawl.WithAdmissionFilter(robots))
		}
	}

	return crawl.NewFrontier(cfg.Origin(), cfg.MaxDepth, opts...), nil
}

// seedFromSitemaps admits sitemap URLs one level below the base URL.
// Sitemap failures are logged; the crawl proceeds from the base URL alone.
func (c *CrawlCmd) seedFromSitemaps(ctx context.Context, frontier *crawl.Frontier) {
	sitemaps := pcslog.NewLoggingSitemapService(
		pchttp.NewSitemapService(c.httpClient(), pchttp.WithSitemapLogger(c.Logger)),
		c.Logger,
	)

	urls, err := sitemaps.DiscoverURLs(ctx, c.Config.BaseURL)
	if err != nil {
		return
	}

	var admitted int
	for _, u := range urls {
		if frontier.Admit(u, 1) {
			admitted++
		}
	}
	c.Logger.Info("seeded from sitemap", "found", len(urls), "admitted", admitted)
}

func (c *CrawlCmd) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return pchttp.NewClient(c.Config.UserAgent, pchttp.DefaultTimeout)
}

func (c *CrawlCmd) progress(event crawl.ProgressEvent) {
	switch event.Type {
	case crawl.ProgressSaved:
		fmt.Fprintf(c.Stdout, "[%d] %s\n", event.Completed, crawl.ShortURL(event.URL, 70))
	case crawl.ProgressFailed:
		fmt.Fprintf(c.Stdout, "[%d] FAILED %s\n", event.Completed, crawl.ShortURL(event.URL, 63))
	}
}
