package pagecrawl

import (
	"context"
	"net/url"
	"regexp"
)

// WorkItem is a URL admitted to the frontier together with its crawl depth.
// It is created once by admission and never mutated afterwards.
type WorkItem struct {
	URL   string
	Depth int
}

// Frontier holds the queue of pending work and the record of every URL
// ever admitted during a run.
type Frontier interface {
	// Admit normalizes the URL and enqueues it at the given depth.
	// Returns false, without side effects, if the URL was seen before
	// or fails the admission policy.
	Admit(url string, depth int) bool

	// Next removes the earliest admitted item and marks it in flight.
	// Returns false if the queue is empty.
	Next() (WorkItem, bool)

	// Done releases an in-flight item returned by Next.
	Done(item WorkItem)

	// IsDrained returns true when the queue is empty and no item is in flight.
	IsDrained() bool
}

// AdmissionFilter is an extra admission rule applied after the origin and
// depth checks.
type AdmissionFilter interface {
	Allow(u *url.URL) bool
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

var _ AdmissionFilter = (*URLFilter)(nil)

// NewURLFilter compiles include and exclude patterns.
// Returns nil when both lists are empty.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// Allow implements AdmissionFilter.
func (f *URLFilter) Allow(u *url.URL) bool {
	return f.Match(u.String())
}

// RateLimiter paces requests across the whole worker pool.
type RateLimiter interface {
	// Wait blocks until the next request may start.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
