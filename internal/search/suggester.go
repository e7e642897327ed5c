package search

import (
	"container/list"
	"sync"
	"time"
)

// MinQueryLength is the shortest query that triggers a lookup. Anything
// shorter clears the suggestions immediately.
const MinQueryLength = 2

// MaxResults caps how many suggestions a lookup returns.
const MaxResults = 5

// DefaultDebounce is the quiet period before a lookup executes.
const DefaultDebounce = 300 * time.Millisecond

// defaultCacheCapacity bounds the query result cache.
const defaultCacheCapacity = 128

// Suggester runs debounced lookups over a Provider with an exact-match
// query cache. Results are delivered asynchronously through the deliver
// callback, on the debounce timer's goroutine.
//
// The cache has no TTL: results are treated as stable for the session and
// only eviction by capacity removes them.
type Suggester struct {
	provider Provider
	dataset  []Record
	debounce time.Duration
	deliver  func(query string, results []Record)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	cache   *queryCache
}

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithDebounce overrides the debounce quiet period.
func WithDebounce(d time.Duration) SuggesterOption {
	return func(s *Suggester) { s.debounce = d }
}

// WithCacheCapacity overrides the query cache capacity.
func WithCacheCapacity(n int) SuggesterOption {
	return func(s *Suggester) { s.cache = newQueryCache(n) }
}

// NewSuggester creates a Suggester over the given dataset. deliver is
// called with the results of every executed or cache-served lookup, and
// with nil results when a short query clears the suggestions.
func NewSuggester(provider Provider, dataset []Record, deliver func(string, []Record), opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		provider: provider,
		dataset:  dataset,
		debounce: DefaultDebounce,
		deliver:  deliver,
		cache:    newQueryCache(defaultCacheCapacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Type registers a keystroke. Queries shorter than MinQueryLength clear the
// suggestions with no lookup. Longer queries are debounced: each call
// cancels the previous timer, so a burst of keystrokes executes exactly one
// lookup, for the final query.
func (s *Suggester) Type(query string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(query) < MinQueryLength {
		s.pending = ""
		s.mu.Unlock()
		s.deliver(query, nil)
		return
	}
	s.pending = query
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		q := s.pending
		s.mu.Unlock()
		if q != query {
			// A newer keystroke replaced us between fire and lock.
			return
		}
		s.deliver(query, s.Lookup(query))
	})
	s.mu.Unlock()
}

// Lookup performs an immediate (non-debounced) lookup, consulting the
// exact-match cache first.
func (s *Suggester) Lookup(query string) []Record {
	s.mu.Lock()
	if results, ok := s.cache.get(query); ok {
		s.mu.Unlock()
		return results
	}
	s.mu.Unlock()

	var results []Record
	for _, rec := range s.dataset {
		if s.provider.Match(rec, query) {
			results = append(results, rec)
			if len(results) == MaxResults {
				break
			}
		}
	}

	s.mu.Lock()
	s.cache.put(query, results)
	s.mu.Unlock()
	return results
}

// CacheLen reports how many queries are cached.
func (s *Suggester) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.len()
}

// queryCache is a small LRU keyed by the literal query string.
type queryCache struct {
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	query   string
	results []Record
}

func newQueryCache(capacity int) *queryCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &queryCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

func (c *queryCache) get(query string) ([]Record, bool) {
	el, ok := c.entries[query]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).results, true
}

func (c *queryCache) put(query string, results []Record) {
	if el, ok := c.entries[query]; ok {
		el.Value.(*cacheEntry).results = results
		c.order.MoveToFront(el)
		return
	}
	c.entries[query] = c.order.PushFront(&cacheEntry{query: query, results: results})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).query)
	}
}

func (c *queryCache) len() int {
	return c.order.Len()
}
