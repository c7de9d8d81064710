package http

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagecrawl"
)

var _ pagecrawl.SitemapService = (*SitemapService)(nil)

// maxSitemapDocuments bounds how many sitemap files one discovery reads,
// index files included.
const maxSitemapDocuments = 500

// SitemapService discovers page URLs from a site's XML sitemaps.
type SitemapService struct {
	client *http.Client
	logger *slog.Logger
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithSitemapLogger sets the logger that reports sitemap documents skipped
// because they could not be fetched or parsed.
func WithSitemapLogger(logger *slog.Logger) SitemapOption {
	return func(s *SitemapService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{
		client: client,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverURLs returns the page URLs listed in the site's sitemaps, in
// document order and without duplicates. Sitemap locations come from
// robots.txt, falling back to /sitemap.xml; sitemap indexes are followed
// and gzipped sitemaps are decompressed. Returns an empty slice when the
// site has no sitemap.
//
// A base URL with a path (https://example.com/docs/) limits the result to
// URLs under that path.
//
// A document that cannot be fetched or parsed is logged and skipped. The
// error is returned only when no sitemap document could be read.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "invalid base URL: %v", err)
	}
	site := &url.URL{Scheme: base.Scheme, Host: base.Host}
	scope := strings.TrimSuffix(base.Path, "/")

	pending, err := s.locate(ctx, site)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenURL := make(map[string]struct{})
	seenDoc := make(map[string]struct{})
	var read int
	var firstErr error

	for len(pending) > 0 {
		loc := pending[0]
		pending = pending[1:]
		if _, ok := seenDoc[loc]; ok {
			continue
		}
		if len(seenDoc) == maxSitemapDocuments {
			break
		}
		seenDoc[loc] = struct{}{}

		doc, err := s.read(ctx, loc)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Warn("skipping sitemap", "url", loc, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		read++

		switch doc.Root().Tag {
		case "sitemapindex":
			pending = append(pending, locs(doc.Root(), "sitemap")...)
		default:
			for _, u := range locs(doc.Root(), "url") {
				if _, ok := seenURL[u]; ok {
					continue
				}
				seenURL[u] = struct{}{}
				if inScope(u, scope) {
					urls = append(urls, u)
				}
			}
		}
	}

	if read == 0 && firstErr != nil {
		return nil, firstErr
	}
	return urls, nil
}

// locate returns the sitemap URLs advertised by robots.txt, or
// /sitemap.xml if it exists. Errors other than cancellation mean no sitemap.
func (s *SitemapService) locate(ctx context.Context, site *url.URL) ([]string, error) {
	if robots, err := FetchRobots(ctx, s.client, site.String(), ""); err == nil {
		if sitemaps := robots.Sitemaps(); len(sitemaps) > 0 {
			return sitemaps, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := site.JoinPath("sitemap.xml").String()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, fallback, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ctx.Err()
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return []string{fallback}, nil
}

// read fetches and parses one sitemap document.
func (s *SitemapService) read(ctx context.Context, loc string) (*etree.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "invalid sitemap URL %q: %v", loc, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pagecrawl.Errorf(pagecrawl.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, loc)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(req.URL.Path, ".gz") {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "decompressing sitemap %s: %v", loc, err)
		}
		defer zr.Close()
		body = zr
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "parsing sitemap %s: %v", loc, err)
	}
	if doc.Root() == nil {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "empty sitemap %s", loc)
	}
	return doc, nil
}

// locs returns the trimmed, non-empty <loc> values of root's children
// named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if v := strings.TrimSpace(loc.Text()); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// inScope reports whether rawURL's path is scope or below it.
// /docs covers /docs and /docs/intro but not /documentation.
func inScope(rawURL, scope string) bool {
	if scope == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == scope || strings.HasPrefix(u.Path, scope+"/")
}
