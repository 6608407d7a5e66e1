// Package secret holds the catalog of credential-shaped signatures
// used to block accidentally-real secrets in generated content, plus
// the masking utility built on the same catalog.
package secret

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// Category classifies what a pattern hit means.
type Category string

const (
	// CategorySecret matches block content outright unless the line
	// carries a honeytoken marker.
	CategorySecret Category = "secret"
	// CategoryCredential matches only raise soft warnings (connection
	// strings, api-key assignments).
	CategoryCredential Category = "credential"
)

// Pattern is one catalog signature.
type Pattern struct {
	ID       string
	Name     string
	Category Category
	Pattern  string
	// Keywords are lowercase literals used for Aho-Corasick
	// prefiltering; a pattern with no keywords is always evaluated.
	Keywords []string

	re *regexp2.Regexp
}

// compile prepares the regex. RE2 mode is tried first (no
// backtracking); patterns needing Perl features fall back to the
// default mode with a match timeout.
func (p *Pattern) compile() error {
	re, err := regexp2.Compile(p.Pattern, regexp2.RE2|regexp2.Multiline)
	if err != nil {
		re, err = regexp2.Compile(p.Pattern, regexp2.None)
		if err != nil {
			return fmt.Errorf("compiling pattern %q for %s: %w", p.Pattern, p.ID, err)
		}
	}
	re.MatchTimeout = 5 * time.Second
	p.re = re
	return nil
}

// Span is one pattern hit. Offsets are rune indices into the scanned
// content (regexp2 positions are rune-based).
type Span struct {
	Start int
	End   int
	Text  string
}

// FindAll returns every non-overlapping hit of p in content.
func (p *Pattern) FindAll(content string) ([]Span, error) {
	var spans []Span
	m, err := p.re.FindStringMatch(content)
	if err != nil {
		return nil, fmt.Errorf("matching %s: %w", p.ID, err)
	}
	for m != nil {
		spans = append(spans, Span{
			Start: m.Index,
			End:   m.Index + m.Length,
			Text:  m.String(),
		})
		m, err = p.re.FindNextMatch(m)
		if err != nil {
			return nil, fmt.Errorf("matching %s: %w", p.ID, err)
		}
	}
	return spans, nil
}
