package secret

import "strings"

// Mask replaces every span matched by a secret-category pattern with
// '*' repeated to the matched length. The operation is idempotent:
// masked spans no longer match any catalog pattern. Credential
// patterns (soft warnings) are left untouched.
func Mask(patterns []*Pattern, content string) string {
	runes := []rune(content)
	for _, p := range patterns {
		if p.Category != CategorySecret {
			continue
		}
		spans, err := p.FindAll(string(runes))
		if err != nil {
			// A timeout on one pattern must not abort masking of the
			// rest; the unmatched text simply stays visible.
			continue
		}
		for _, s := range spans {
			for i := s.Start; i < s.End && i < len(runes); i++ {
				runes[i] = '*'
			}
		}
	}
	return string(runes)
}

// MaskValue masks all but the first and last visible characters of a
// single sensitive value for safe logging.
func MaskValue(value string, visible int) string {
	r := []rune(value)
	if len(r) <= visible*2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:visible]) + strings.Repeat("*", len(r)-visible*2) + string(r[len(r)-visible:])
}
