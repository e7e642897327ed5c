// Package search provides the search-suggestion pipeline.
//
// Lookups run against a Provider, which matches records against a query.
// Providers are interchangeable so the suggestion widget and any future
// full-page search share one matching implementation.
package search

// Record is a single search result.
type Record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Kind groups records: patient, doctor, appointment, page.
	Kind string `json:"kind"`
	// URL is the detail page the suggestion links to.
	URL string `json:"url"`
}

// Provider defines the interface for search providers.
// Implementations can use different matching strategies.
type Provider interface {
	// Match returns true if the record matches the search query.
	Match(rec Record, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool // If true, searches ignore case sensitivity
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{CaseInsensitive: true}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// applyOptions applies the given options to the options struct.
func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
