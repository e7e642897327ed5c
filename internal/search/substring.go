package search

import (
	"strings"
)

// SubstringProvider matches when the record's display name contains the
// query as a substring.
type SubstringProvider struct {
	opts Options
}

// NewSubstringProvider creates a new substring search provider.
func NewSubstringProvider(opts ...Option) Provider {
	return &SubstringProvider{opts: applyOptions(opts)}
}

// Match returns true if the record name contains the query substring.
func (p *SubstringProvider) Match(rec Record, query string) bool {
	if query == "" {
		return true
	}
	name := rec.Name
	if p.opts.CaseInsensitive {
		name = strings.ToLower(name)
		query = strings.ToLower(query)
	}
	return strings.Contains(name, query)
}

// Name returns the provider name.
func (p *SubstringProvider) Name() string {
	return "substring"
}
