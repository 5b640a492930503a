// Package bloom provides the crawl frontier's seen-URL set.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet tracks URLs that have already been queued for crawling.
// A false positive skips a URL; a budget-bounded crawl tolerates that,
// and false negatives cannot occur, so no URL is fetched twice.
type SeenSet struct {
	f *bloom.BloomFilter
}

// NewSeenSet creates a seen-set sized for n expected URLs with the
// given false positive rate.
func NewSeenSet(n uint, fpRate float64) *SeenSet {
	return &SeenSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add marks a URL as seen.
func (s *SeenSet) Add(url string) {
	s.f.AddString(url)
}

// Seen returns true if the URL may have been added before.
// False positives are possible; false negatives are not.
func (s *SeenSet) Seen(url string) bool {
	return s.f.TestString(url)
}

// EstimatedCount returns the approximate number of URLs added.
func (s *SeenSet) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
