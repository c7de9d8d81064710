// Package bloom provides the visited-URL set used for crawl deduplication.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set is an exact string set fronted by a Bloom filter.
// Lookups for URLs never seen before, the common case during link
// discovery, are answered by the filter alone; positives are confirmed
// against the exact set, so false positives never hide a new URL.
//
// Set is not safe for concurrent use.
type Set struct {
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

// NewSet creates a Set sized for n expected items with the given filter
// false positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter: bloom.NewWithEstimates(n, fpRate),
		exact:  make(map[string]struct{}, n),
	}
}

// Contains reports whether the URL was inserted.
func (s *Set) Contains(url string) bool {
	if !s.filter.TestString(url) {
		return false
	}
	_, ok := s.exact[url]
	return ok
}

// Insert adds the URL and reports whether it was absent before.
func (s *Set) Insert(url string) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.AddString(url)
	s.exact[url] = struct{}{}
	return true
}

// Len returns the number of distinct URLs inserted.
func (s *Set) Len() int {
	return len(s.exact)
}

// EstimatedCount returns the filter's approximation of the number of items.
func (s *Set) EstimatedCount() uint {
	return uint(s.filter.ApproximatedSize())
}
