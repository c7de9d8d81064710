package main

import (
	"time"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/yaml"
)

// CLI defines the command-line interface structure for Kong.
// Zero-valued flags leave the configured value untouched.
type CLI struct {
	URL         string        `arg:"" optional:"" help:"Base URL to crawl (overrides base_url from the config file)"`
	Config      string        `short:"f" type:"path" help:"YAML config file (default: ./.pagecrawl.yaml if present)"`
	Output      string        `short:"o" help:"Output directory"`
	Depth       int           `short:"d" help:"Maximum link depth from the base URL" default:"-1"`
	Concurrency int           `short:"c" help:"Number of concurrent workers"`
	Delay       time.Duration `help:"Minimum interval between navigations across all workers"`
	Timeout     time.Duration `short:"t" help:"Navigation timeout per page"`
	Attempts    int           `short:"a" help:"Attempts per URL before giving up"`
	Backend     string        `short:"b" help:"Browser backend (rod, chromedp, colly)"`
	Fallback    string        `help:"Extractor used when no selector matches (none, trafilatura, readability)"`
	Selector    []string      `short:"s" help:"Content selector, tried in order (repeatable)"`
	Include     []string      `help:"Only crawl URLs matching this pattern (repeatable)"`
	Exclude     []string      `help:"Skip URLs matching this pattern (repeatable)"`
	MaxPages    int           `help:"Stop admitting URLs after this many"`
	Manifest    string        `short:"m" help:"SQLite file recording the run and every visit"`
	Robots      bool          `help:"Respect robots.txt"`
	Sitemap     bool          `help:"Seed the crawl from the site's sitemaps"`
	Frontmatter bool          `help:"Prepend YAML frontmatter to each saved page"`
	Chrome      string        `help:"Chrome executable for the rod and chromedp backends"`
	NoSandbox   bool          `help:"Run Chrome without its sandbox (needed as root in containers)"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
}

// Resolve builds the run configuration: defaults, then the config file,
// then flags. The result is not validated.
func (c *CLI) Resolve(dir string) (*pagecrawl.Config, error) {
	cfg := pagecrawl.DefaultConfig()
	if path := yaml.FindConfigFile(c.Config, dir); path != "" {
		var err error
		cfg, err = yaml.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if c.URL != "" {
		cfg.BaseURL = c.URL
	}
	if c.Output != "" {
		cfg.OutputDir = c.Output
	}
	if c.Depth >= 0 {
		cfg.MaxDepth = c.Depth
	}
	if c.Concurrency != 0 {
		cfg.MaxConcurrency = c.Concurrency
	}
	if c.Delay != 0 {
		cfg.Delay = c.Delay
	}
	if c.Timeout != 0 {
		cfg.Timeout = c.Timeout
	}
	if c.Attempts != 0 {
		cfg.MaxAttempts = c.Attempts
	}
	if c.Backend != "" {
		cfg.Backend = c.Backend
	}
	if c.Fallback != "" {
		cfg.Fallback = c.Fallback
	}
	if len(c.Selector) > 0 {
		cfg.Selectors = c.Selector
	}
	if len(c.Include) > 0 {
		cfg.Include = c.Include
	}
	if len(c.Exclude) > 0 {
		cfg.Exclude = c.Exclude
	}
	if c.MaxPages != 0 {
		cfg.MaxPages = c.MaxPages
	}
	if c.Manifest != "" {
		cfg.Manifest = c.Manifest
	}
	if c.Robots {
		cfg.RespectRobots = true
	}
	if c.Sitemap {
		cfg.Sitemap = true
	}
	if c.Frontmatter {
		cfg.Frontmatter = true
	}
	if c.Chrome != "" {
		cfg.ChromePath = c.Chrome
	}
	if c.NoSandbox {
		cfg.NoSandbox = true
	}

	return cfg, nil
}
