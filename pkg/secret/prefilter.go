package secret

import (
	"bytes"

	"github.com/cloudflare/ahocorasick"
)

// Prefilter narrows the catalog to patterns whose keywords appear in
// the content before any regex is evaluated. Matching is done against
// lowercased content, so keywords must be stored lowercase.
type Prefilter struct {
	matcher           *ahocorasick.Matcher
	keywords          []string
	keywordPatterns   map[string][]*Pattern
	noKeywordPatterns []*Pattern
}

// NewPrefilter builds a prefilter over the catalog.
func NewPrefilter(patterns []*Pattern) *Prefilter {
	pf := &Prefilter{
		keywordPatterns: make(map[string][]*Pattern),
	}

	seen := make(map[string]bool)
	for _, p := range patterns {
		if len(p.Keywords) == 0 {
			pf.noKeywordPatterns = append(pf.noKeywordPatterns, p)
			continue
		}
		for _, kw := range p.Keywords {
			if !seen[kw] {
				seen[kw] = true
				pf.keywords = append(pf.keywords, kw)
			}
			pf.keywordPatterns[kw] = append(pf.keywordPatterns[kw], p)
		}
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}
	return pf
}

// Filter returns the patterns worth evaluating against content:
// those with a keyword hit plus those declaring no keywords.
func (pf *Prefilter) Filter(content string) []*Pattern {
	result := make([]*Pattern, 0, len(pf.noKeywordPatterns))
	result = append(result, pf.noKeywordPatterns...)

	if pf.matcher == nil {
		return result
	}

	hits := pf.matcher.Match(bytes.ToLower([]byte(content)))

	included := make(map[*Pattern]bool, len(result))
	for _, p := range result {
		included[p] = true
	}
	for _, hit := range hits {
		for _, p := range pf.keywordPatterns[pf.keywords[hit]] {
			if !included[p] {
				included[p] = true
				result = append(result, p)
			}
		}
	}
	return result
}
