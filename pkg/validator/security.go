package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/decoyhive/decoyhive/pkg/secret"
	"github.com/decoyhive/decoyhive/pkg/types"
)

// Security blocks content containing what looks like a real secret.
// Generated honeytokens that match a catalog signature must carry a
// honeytoken marker comment on the same line or they are flagged like
// any real leak — a documented caller responsibility.
type Security struct {
	patterns  []*secret.Pattern
	prefilter *secret.Prefilter

	markerRe   *regexp.Regexp
	publicIPRe *regexp2.Regexp
	passwordRe *regexp.Regexp
	emailRe    *regexp.Regexp
	upperRe    *regexp.Regexp
	digitRe    *regexp.Regexp
}

// NewSecurity builds the validator over the builtin signature catalog.
func NewSecurity() (*Security, error) {
	patterns, err := secret.NewLoader().LoadBuiltin()
	if err != nil {
		return nil, fmt.Errorf("loading secret catalog: %w", err)
	}
	return NewSecurityWithPatterns(patterns)
}

// NewSecurityWithPatterns builds the validator over a custom catalog.
func NewSecurityWithPatterns(patterns []*secret.Pattern) (*Security, error) {
	// The public-IP check excludes RFC1918 ranges with lookahead,
	// which stdlib regexp cannot express.
	publicIPRe, err := regexp2.Compile(`\b(?!10\.|172\.16\.|192\.168\.)(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compiling public IP pattern: %w", err)
	}
	publicIPRe.MatchTimeout = 5 * time.Second

	return &Security{
		patterns:   patterns,
		prefilter:  secret.NewPrefilter(patterns),
		markerRe:   regexp.MustCompile(`(?i)#.*honeytoken|honeytoken.*#`),
		publicIPRe: publicIPRe,
		passwordRe: regexp.MustCompile(`(?i)password=([^;\s&]+)`),
		emailRe:    regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		upperRe:    regexp.MustCompile(`[A-Z]`),
		digitRe:    regexp.MustCompile(`[0-9]`),
	}, nil
}

// Name returns the validator name.
func (s *Security) Name() string { return types.ValidatorSecurity }

// finding describes one unexempted secret-pattern hit, exposed in
// result metadata for diagnosability.
type finding struct {
	Type     string `json:"type"`
	Position int    `json:"position"`
	Preview  string `json:"preview"`
}

// Validate scans content against the catalog. Secret-category hits
// without a same-line honeytoken marker are errors; credential and
// network smells are warnings only.
func (s *Security) Validate(content string, ctx Context) *types.ValidationResult {
	var errs, warnings []string
	var findings []finding

	runes := []rune(content)

	for _, p := range s.prefilter.Filter(content) {
		spans, err := p.FindAll(content)
		if err != nil {
			// A pattern timeout is not a content problem; skip the
			// pattern rather than fail the content.
			continue
		}
		for _, span := range spans {
			switch p.Category {
			case secret.CategorySecret:
				if s.lineHasMarker(runes, span) {
					continue
				}
				errs = append(errs, fmt.Sprintf("potential real %s detected at position %d", p.ID, span.Start))
				findings = append(findings, finding{
					Type:     p.ID,
					Position: span.Start,
					Preview:  preview(span.Text),
				})
			case secret.CategoryCredential:
				if w := s.passwordWarning(p.ID, span.Text); w != "" {
					warnings = append(warnings, w)
				}
			}
		}
	}

	if w := s.publicIPWarning(content); w != "" {
		warnings = append(warnings, w)
	}
	if w := s.emailWarning(content); w != "" {
		warnings = append(warnings, w)
	}

	valid := len(errs) == 0
	score := 0.0
	if valid {
		score = 1.0
	}
	// Warnings alone cannot drive the score below 0.7.
	if len(errs) == 0 && len(warnings) > 0 && score < 0.7 {
		score = 0.7
	}

	result := &types.ValidationResult{
		Valid:    valid,
		Score:    score,
		Errors:   errs,
		Warnings: warnings,
	}
	if len(findings) > 0 {
		result.Metadata = map[string]any{"findings": findings}
	}
	return result
}

// Mask replaces every catalog secret match in content with asterisks
// of the same length. Idempotent and non-validating; intended for
// safe logging and display.
func (s *Security) Mask(content string) string {
	return secret.Mask(s.patterns, content)
}

// lineHasMarker reports whether the physical line containing the span
// carries a honeytoken marker comment. The check is deliberately
// literal and line-scoped; see the catalog docs for the known
// over/under-exemption boundary of this heuristic.
func (s *Security) lineHasMarker(runes []rune, span secret.Span) bool {
	start := span.Start
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	end := span.End
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	return s.markerRe.MatchString(string(runes[start:end]))
}

// passwordWarning flags complex-looking passwords embedded in
// connection strings. Real passwords tend to be long and mixed-case
// with digits; decoy ones should not look that real.
func (s *Security) passwordWarning(patternID, matched string) string {
	if !strings.Contains(strings.ToLower(matched), "password=") {
		return ""
	}
	m := s.passwordRe.FindStringSubmatch(matched)
	if m == nil {
		return ""
	}
	password := m[1]
	if len(password) > 15 && s.upperRe.MatchString(password) && s.digitRe.MatchString(password) {
		return fmt.Sprintf("potentially real password in %s", patternID)
	}
	return ""
}

func (s *Security) publicIPWarning(content string) string {
	count := 0
	m, err := s.publicIPRe.FindStringMatch(content)
	for err == nil && m != nil {
		ip := m.String()
		if !strings.HasPrefix(ip, "0.") && !strings.HasPrefix(ip, "127.") && !strings.HasPrefix(ip, "255.") {
			count++
		}
		m, err = s.publicIPRe.FindNextMatch(m)
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("found %d potential public IP addresses", count)
}

var fakeEmailDomains = []string{"example.com", "test.com", "fake.", "dummy", "sample"}

func (s *Security) emailWarning(content string) string {
	count := 0
	for _, email := range s.emailRe.FindAllString(content, -1) {
		lower := strings.ToLower(email)
		fake := false
		for _, d := range fakeEmailDomains {
			if strings.Contains(lower, d) {
				fake = true
				break
			}
		}
		if !fake {
			count++
		}
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("found %d email addresses that may be real", count)
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= 20 {
		return text + "..."
	}
	return string(r[:20]) + "..."
}
