package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider wraps a provider and counts Match calls per query.
type countingProvider struct {
	inner Provider

	mu      sync.Mutex
	queries map[string]int
}

func newCountingProvider() *countingProvider {
	return &countingProvider{inner: NewSubstringProvider(), queries: make(map[string]int)}
}

func (p *countingProvider) Match(rec Record, query string) bool {
	p.mu.Lock()
	p.queries[query]++
	p.mu.Unlock()
	return p.inner.Match(rec, query)
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) seen(query string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries[query] > 0
}

// deliveries collects deliver callbacks for inspection.
type deliveries struct {
	mu   sync.Mutex
	got  []string
	last []Record
}

func (d *deliveries) deliver(query string, results []Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.got = append(d.got, query)
	d.last = results
}

func (d *deliveries) queries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.got...)
}

func (d *deliveries) lastResults() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func TestShortQueryClearsWithoutLookup(t *testing.T) {
	provider := newCountingProvider()
	dl := &deliveries{}
	s := NewSuggester(provider, DefaultDataset(), dl.deliver, WithDebounce(time.Millisecond))

	s.Type("j")
	s.Type("")

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"j", ""}, dl.queries(), "short queries clear immediately")
	assert.Nil(t, dl.lastResults())
	assert.False(t, provider.seen("j"), "no provider call below the minimum length")
	assert.Zero(t, s.CacheLen())
}

func TestBurstOfKeystrokesExecutesOneLookup(t *testing.T) {
	provider := newCountingProvider()
	dl := &deliveries{}
	s := NewSuggester(provider, DefaultDataset(), dl.deliver, WithDebounce(20*time.Millisecond))

	for _, q := range []string{"jo", "joh", "john"} {
		s.Type(q)
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(dl.queries()) == 1 },
		time.Second, time.Millisecond)
	assert.Equal(t, []string{"john"}, dl.queries(), "only the final query runs")
	assert.False(t, provider.seen("jo"))
	assert.False(t, provider.seen("joh"))

	// "john" matches both John Smith and Emily Johnson, dataset order.
	results := dl.lastResults()
	require.Len(t, results, 2)
	assert.Equal(t, "John Smith", results[0].Name)
}

func TestLookupServedFromCache(t *testing.T) {
	provider := newCountingProvider()
	s := NewSuggester(provider, DefaultDataset(), func(string, []Record) {})

	first := s.Lookup("smith")
	require.Len(t, first, 1)
	require.True(t, provider.seen("smith"))

	provider.mu.Lock()
	provider.queries = make(map[string]int)
	provider.mu.Unlock()

	second := s.Lookup("smith")
	assert.Equal(t, first, second)
	assert.False(t, provider.seen("smith"), "repeat lookup must hit the cache")
	assert.Equal(t, 1, s.CacheLen())
}

func TestLookupTruncatesAtMaxResults(t *testing.T) {
	s := NewSuggester(NewSubstringProvider(), DefaultDataset(), func(string, []Record) {})

	// "dr" matches every doctor plus "Medical Records" in dataset order;
	// case-insensitive "a" matches far more than five records.
	results := s.Lookup("an")
	assert.LessOrEqual(t, len(results), MaxResults)

	all := s.Lookup("a")
	assert.Len(t, all, MaxResults)
}

func TestLookupPreservesDatasetOrder(t *testing.T) {
	s := NewSuggester(NewSubstringProvider(), DefaultDataset(), func(string, []Record) {})
	results := s.Lookup("dr.")
	require.Len(t, results, 4)
	assert.Equal(t, "Dr. Anna Martinez", results[0].Name)
	assert.Equal(t, "Dr. Robert Thomas", results[3].Name)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	s := NewSuggester(NewSubstringProvider(), DefaultDataset(), func(string, []Record) {},
		WithCacheCapacity(2))

	s.Lookup("aa")
	s.Lookup("bb")
	s.Lookup("aa") // refresh aa
	s.Lookup("cc") // evicts bb

	assert.Equal(t, 2, s.CacheLen())

	provider := newCountingProvider()
	s2 := NewSuggester(provider, DefaultDataset(), func(string, []Record) {}, WithCacheCapacity(2))
	s2.Lookup("aa")
	s2.Lookup("bb")
	s2.Lookup("aa")
	s2.Lookup("cc")

	provider.mu.Lock()
	provider.queries = make(map[string]int)
	provider.mu.Unlock()

	s2.Lookup("aa")
	assert.False(t, provider.seen("aa"), "refreshed entry survives eviction")
	s2.Lookup("bb")
	assert.True(t, provider.seen("bb"), "least recently used entry was evicted")
}
