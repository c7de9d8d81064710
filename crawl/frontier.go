package crawl

import (
	"net/url"
	"sync"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/bloom"
)

// Compile-time interface verification.
var _ pagecrawl.Frontier = (*Frontier)(nil)

// Visited-set sizing.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the Bloom filter false positive rate.
	// False positives only cost an exact-set lookup.
	frontierFalsePositiveRate = 0.01
)

// Frontier is an in-memory FIFO URL frontier with deduplication.
// Admission, dequeue and release are serialized by a single mutex, so a URL
// discovered concurrently by several workers is enqueued exactly once.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	origin   *url.URL
	maxDepth int
	maxItems int
	filters  []pagecrawl.AdmissionFilter

	mu       sync.Mutex
	seen     *bloom.Set
	queue    []pagecrawl.WorkItem
	inFlight int
	changed  chan struct{}
}

// FrontierOption configures a Frontier.
type FrontierOption func(*Frontier)

// WithMaxItems caps the number of URLs the frontier will ever admit.
// Zero means no cap.
func WithMaxItems(n int) FrontierOption {
	return func(f *Frontier) {
		f.maxItems = n
	}
}

// WithAdmissionFilter adds an admission rule checked after origin and depth.
func WithAdmissionFilter(filter pagecrawl.AdmissionFilter) FrontierOption {
	return func(f *Frontier) {
		if filter != nil {
			f.filters = append(f.filters, filter)
		}
	}
}

// NewFrontier creates a Frontier admitting URLs of the origin's scheme, host
// and port up to maxDepth inclusive.
func NewFrontier(origin *url.URL, maxDepth int, opts ...FrontierOption) *Frontier {
	canonical, err := NormalizeURL(nil, origin.String())
	if err != nil {
		canonical = origin
	}
	f := &Frontier{
		origin:   canonical,
		maxDepth: maxDepth,
		seen:     bloom.NewSet(frontierExpectedURLs, frontierFalsePositiveRate),
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Admit normalizes the URL and enqueues it at the given depth.
// Returns false, without side effects, when the depth exceeds the limit,
// the URL is off-origin, a filter rejects it, the item cap is reached,
// or the URL was admitted before.
func (f *Frontier) Admit(rawURL string, depth int) bool {
	if depth < 0 || depth > f.maxDepth {
		return false
	}
	u, err := NormalizeURL(f.origin, rawURL)
	if err != nil || !SameOrigin(u, f.origin) {
		return false
	}
	for _, filter := range f.filters {
		if !filter.Allow(u) {
			return false
		}
	}
	key := u.String()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maxItems > 0 && f.seen.Len() >= f.maxItems {
		return false
	}
	if !f.seen.Insert(key) {
		return false
	}
	f.queue = append(f.queue, pagecrawl.WorkItem{URL: key, Depth: depth})
	f.broadcast()
	return true
}

// Next removes the earliest admitted item and marks it in flight.
// The bool result is false if the queue is empty.
func (f *Frontier) Next() (pagecrawl.WorkItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return pagecrawl.WorkItem{}, false
	}
	item := f.queue[0]
	f.queue[0] = pagecrawl.WorkItem{}
	f.queue = f.queue[1:]
	f.inFlight++
	return item, true
}

// Done releases an item returned by Next.
func (f *Frontier) Done(pagecrawl.WorkItem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inFlight > 0 {
		f.inFlight--
	}
	f.broadcast()
}

// IsDrained returns true when the queue is empty and no item is in flight.
func (f *Frontier) IsDrained() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) == 0 && f.inFlight == 0
}

// Changed returns a channel that is closed on the next admission or release.
// Grab it before calling Next to avoid missing a wakeup.
func (f *Frontier) Changed() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.changed
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been admitted.
func (f *Frontier) Seen(rawURL string) bool {
	u, err := NormalizeURL(f.origin, rawURL)
	if err != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Contains(u.String())
}

// broadcast wakes every goroutine waiting on Changed.
// Must be called with mu held.
func (f *Frontier) broadcast() {
	close(f.changed)
	f.changed = make(chan struct{})
}
