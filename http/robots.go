package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fwojciec/pagecrawl"
	"github.com/temoto/robotstxt"
)

// Ensure Robots implements pagecrawl.AdmissionFilter at compile time.
var _ pagecrawl.AdmissionFilter = (*Robots)(nil)

// Robots holds the robots.txt rules that apply to one user agent.
// A nil *Robots allows everything.
type Robots struct {
	data      *robotstxt.RobotsData
	userAgent string
}

// ParseRobots builds Robots from a robots.txt response.
// Following the robots.txt conventions, a 4xx status allows everything and a
// 5xx status disallows everything.
func ParseRobots(statusCode int, body []byte, userAgent string) (*Robots, error) {
	data, err := robotstxt.FromStatusAndBytes(statusCode, body)
	if err != nil {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "parsing robots.txt: %v", err)
	}
	return &Robots{data: data, userAgent: userAgent}, nil
}

// FetchRobots downloads and parses robots.txt from the root of baseURL.
func FetchRobots(ctx context.Context, client *http.Client, baseURL, userAgent string) (*Robots, error) {
	if client == nil {
		client = http.DefaultClient
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "invalid base URL: %v", err)
	}
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return ParseRobots(resp.StatusCode, body, userAgent)
}

// Allow reports whether the rules permit fetching u.
func (r *Robots) Allow(u *url.URL) bool {
	if r == nil || r.data == nil {
		return true
	}
	return r.data.TestAgent(u.RequestURI(), r.userAgent)
}

// Sitemaps returns the Sitemap: locations listed in robots.txt.
func (r *Robots) Sitemaps() []string {
	if r == nil || r.data == nil {
		return nil
	}
	return r.data.Sitemaps
}
