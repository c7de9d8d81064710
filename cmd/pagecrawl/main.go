package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/chromedp"
	"github.com/fwojciec/pagecrawl/colly"
	"github.com/fwojciec/pagecrawl/rod"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Dir is where the default config file is looked up.
	Dir string

	// NewBrowser starts the browser backend named by the config.
	NewBrowser func(cfg *pagecrawl.Config, logger *slog.Logger) (pagecrawl.Browser, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Dir:        ".",
		NewBrowser: newBrowser,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagecrawl"),
		kong.Description("Crawl a site and save the main content of every page as Markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := cli.Resolve(m.Dir)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cmd := &CrawlCmd{
		Config:     cfg,
		Logger:     logger,
		Stdout:     stdout,
		NewBrowser: m.NewBrowser,
	}
	return cmd.Run(ctx)
}

// newBrowser starts the configured backend.
func newBrowser(cfg *pagecrawl.Config, logger *slog.Logger) (pagecrawl.Browser, error) {
	switch cfg.Backend {
	case pagecrawl.BackendChromedp:
		return chromedp.NewBrowser(chromedp.Config{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: cfg.AcceptLanguage,
			ExecPath:       cfg.ChromePath,
			NoSandbox:      cfg.NoSandbox,
		})
	case pagecrawl.BackendColly:
		return colly.NewBrowser(colly.Config{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: cfg.AcceptLanguage,
			Timeout:        cfg.Timeout,
		}), nil
	default:
		b, err := rod.NewBrowser(
			rod.WithUserAgent(cfg.UserAgent, cfg.AcceptLanguage),
			rod.WithManagerOptions(
				rod.WithMaxPages(int64(cfg.RecycleAfter)),
				rod.WithNoSandbox(cfg.NoSandbox),
				rod.WithBin(cfg.ChromePath),
			),
		)
		if err != nil {
			logger.Error("Chrome or Chromium must be installed for the rod backend")
			return nil, err
		}
		return b, nil
	}
}
