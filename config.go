package pagecrawl

import (
	"net/url"
	"time"
)

// Browser backends.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
	BackendColly    = "colly"
)

// Fallback extractors.
const (
	FallbackNone        = "none"
	FallbackTrafilatura = "trafilatura"
	FallbackReadability = "readability"
)

// Config is the run configuration. It is resolved once at startup and
// shared read-only by every component for the duration of the run.
type Config struct {
	BaseURL   string   `yaml:"base_url"`
	Selectors []string `yaml:"selectors"`
	OutputDir string   `yaml:"output_dir"`

	// MaxDepth is inclusive: items deeper than this are dropped.
	MaxDepth       int           `yaml:"max_depth"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	Delay          time.Duration `yaml:"delay"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxAttempts    int           `yaml:"max_attempts"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`

	UserAgent      string `yaml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language"`

	Backend     string `yaml:"backend"`
	Fallback    string `yaml:"fallback"`
	Frontmatter bool   `yaml:"frontmatter"`

	// MaxPages caps the number of admitted URLs. Zero means no cap.
	MaxPages      int      `yaml:"max_pages"`
	Include       []string `yaml:"include"`
	Exclude       []string `yaml:"exclude"`
	RespectRobots bool     `yaml:"respect_robots"`
	Sitemap       bool     `yaml:"sitemap"`

	// Manifest is the path of the SQLite run manifest. Empty disables it.
	Manifest string `yaml:"manifest"`

	// RecycleAfter is the number of pages after which the browser is restarted.
	RecycleAfter int `yaml:"recycle_after"`

	// ChromePath is the Chrome executable. Empty means look it up.
	ChromePath string `yaml:"chrome_path"`
	NoSandbox  bool   `yaml:"no_sandbox"`
}

// DefaultSelectors are tried in order when no selectors are configured.
var DefaultSelectors = []string{
	"main",
	"article",
	`div[role="main"]`,
	"div.main-content",
	"div.content",
	"div.page-content",
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://example.com",
		Selectors:      append([]string(nil), DefaultSelectors...),
		OutputDir:      "crawled_pages",
		MaxDepth:       3,
		MaxConcurrency: 5,
		Delay:          3 * time.Second,
		Timeout:        30 * time.Second,
		MaxAttempts:    5,
		RetryBackoff:   3 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		AcceptLanguage: "en-US,en;q=0.9",
		Backend:        BackendRod,
		Fallback:       FallbackNone,
		RecycleAfter:   75,
	}
}

// Validate returns an error if the configuration cannot drive a run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return Errorf(EINVALID, "invalid base URL %q: %v", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "base URL must be an absolute http(s) URL: %q", c.BaseURL)
	}
	if len(c.Selectors) == 0 {
		return Errorf(EINVALID, "at least one selector required")
	}
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must not be negative")
	}
	if c.MaxConcurrency < 1 {
		return Errorf(EINVALID, "max concurrency must be at least 1")
	}
	if c.MaxAttempts < 1 {
		return Errorf(EINVALID, "max attempts must be at least 1")
	}
	if c.Delay < 0 || c.Timeout < 0 || c.RetryBackoff < 0 {
		return Errorf(EINVALID, "durations must not be negative")
	}
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	switch c.Backend {
	case BackendRod, BackendChromedp, BackendColly:
	default:
		return Errorf(EINVALID, "unknown backend %q", c.Backend)
	}
	switch c.Fallback {
	case "", FallbackNone, FallbackTrafilatura, FallbackReadability:
	default:
		return Errorf(EINVALID, "unknown fallback extractor %q", c.Fallback)
	}
	return nil
}

// Origin returns the parsed base URL.
// The configuration must have been validated.
func (c *Config) Origin() *url.URL {
	u, _ := url.Parse(c.BaseURL)
	return u
}
