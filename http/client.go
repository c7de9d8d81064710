// Package http talks to a crawled site's metadata endpoints: robots.txt and
// XML sitemaps.
package http

import (
	"net/http"
	"time"
)

// DefaultTimeout is the default timeout for metadata requests.
const DefaultTimeout = 10 * time.Second

// NewClient returns an HTTP client that identifies itself with userAgent.
func NewClient(userAgent string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &userAgentTransport{
			next:      http.DefaultTransport,
			userAgent: userAgent,
		},
	}
}

type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}
