package validator

import (
	"regexp"
	"strings"

	"github.com/decoyhive/decoyhive/pkg/textstat"
	"github.com/decoyhive/decoyhive/pkg/types"
)

// Realism scores how authentic content looks, independent of whether
// it parses. It is intentionally gullible to syntax and skeptical of
// statistical "too clean" or "too fake" signals. It always succeeds:
// any input yields a score in [0,1], never an error.
type Realism struct{}

// NewRealism creates the realism validator.
func NewRealism() *Realism {
	return &Realism{}
}

// Name returns the validator name.
func (r *Realism) Name() string { return types.ValidatorRealism }

// Sub-score weights. Pattern and structure carry the most signal;
// entropy and authenticity are correctives.
const (
	weightEntropy      = 0.2
	weightPattern      = 0.3
	weightStructure    = 0.3
	weightAuthenticity = 0.2

	realismThreshold = 0.7
)

// Validate computes the weighted realism score. Deterministic for a
// fixed input: no randomness participates in scoring.
func (r *Realism) Validate(content string, ctx Context) *types.ValidationResult {
	fileType := ctx.FileType
	if fileType == "" {
		fileType = "unknown"
	}

	entropyScore := r.entropyScore(content)
	patternScore := r.patternScore(content, fileType)
	structureScore := r.structureScore(content)
	authenticityScore := r.authenticityScore(content)

	total := entropyScore*weightEntropy +
		patternScore*weightPattern +
		structureScore*weightStructure +
		authenticityScore*weightAuthenticity

	var warnings []string
	if total < 0.5 {
		warnings = append(warnings, "content may not be realistic enough")
	}
	if entropyScore < 0.3 {
		warnings = append(warnings, "low entropy - content may be too repetitive")
	}

	return &types.ValidationResult{
		Valid:    total >= realismThreshold,
		Score:    total,
		Warnings: warnings,
		Metadata: map[string]any{
			"entropy_score":      entropyScore,
			"pattern_score":      patternScore,
			"structure_score":    structureScore,
			"authenticity_score": authenticityScore,
		},
	}
}

// entropyScore normalizes Shannon entropy against 6.0 bits/char and
// clamps at 1.0. Realistic text and code sit in the 3-6 range; the
// clamp penalizes the low end, the warning threshold flags it.
func (r *Realism) entropyScore(content string) float64 {
	if content == "" {
		return 0.0
	}
	normalized := textstat.ShannonEntropy(content) / 6.0
	if normalized > 1.0 {
		return 1.0
	}
	return normalized
}

var (
	pyDefRe      = regexp.MustCompile(`\bdef\s+\w+\(`)
	pyImportRe   = regexp.MustCompile(`\bimport\s+\w+`)
	pyClassRe    = regexp.MustCompile(`\bclass\s+\w+`)
	jsFunctionRe = regexp.MustCompile(`\bfunction\s+\w+\(`)
	jsImportRe   = regexp.MustCompile(`\brequire\(|import\s+`)
	shIfTestRe   = regexp.MustCompile(`\bif\s+\[`)
)

// patternScore is the fraction of type-specific expected constructs
// present in the content. Each type family has a fixed checklist;
// unknown types use a three-item generic one.
func (r *Realism) patternScore(content, fileType string) float64 {
	score, checks := 0, 0
	newlines := strings.Count(content, "\n")

	containsAny := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(content, s) {
				return true
			}
		}
		return false
	}

	switch fileType {
	case "python":
		checks = 5
		if pyDefRe.MatchString(content) {
			score++
		}
		if pyImportRe.MatchString(content) {
			score++
		}
		if pyClassRe.MatchString(content) || strings.Contains(content, "if __name__") {
			score++
		}
		if containsAny("try:", "except", "with", "for", "while") {
			score++
		}
		if newlines > 10 {
			score++
		}
	case "javascript":
		checks = 5
		if jsFunctionRe.MatchString(content) || strings.Contains(content, "=>") {
			score++
		}
		if containsAny("const", "let", "var") {
			score++
		}
		if containsAny("async", "await", "promise", "Promise") {
			score++
		}
		if jsImportRe.MatchString(content) {
			score++
		}
		if newlines > 10 {
			score++
		}
	case "shell":
		checks = 5
		if strings.HasPrefix(content, "#!") {
			score++
		}
		if shIfTestRe.MatchString(content) {
			score++
		}
		if containsAny("echo", "mkdir", "cd", "cp", "mv") {
			score++
		}
		if strings.Contains(content, "$") {
			score++
		}
		if newlines > 5 {
			score++
		}
	case "yaml", "docker_compose":
		checks = 4
		if strings.Contains(content, ":") && strings.Contains(content, "\n") {
			score++
		}
		if strings.HasPrefix(content, " ") || strings.HasPrefix(content, "-") || strings.Contains(content, "\n ") {
			score++
		}
		if newlines > 5 {
			score++
		}
		if !strings.Contains(content, "\t") {
			score++
		}
	case "nginx":
		checks = 4
		if containsAny("server", "location") {
			score++
		}
		if strings.Contains(content, "{") && strings.Contains(content, "}") {
			score++
		}
		if strings.Contains(content, ";") {
			score++
		}
		if containsAny("listen", "server_name", "root", "proxy_pass") {
			score++
		}
	default:
		checks = 3
		if newlines > 5 {
			score++
		}
		if len(content) > 100 {
			score++
		}
		if strings.TrimSpace(content) != "" {
			score++
		}
	}

	return float64(score) / float64(checks)
}

// structureScore awards 0.2-point credits for formatting traits of
// hand-written files, capped at 1.0.
func (r *Realism) structureScore(content string) float64 {
	score := 0.0
	lines := strings.Split(content, "\n")

	if strings.Contains(content, "#") || strings.Contains(content, "//") || strings.Contains(content, "/*") {
		score += 0.2
	}

	indented := 0
	for _, line := range lines {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			indented++
		}
	}
	if len(lines) > 0 {
		ratio := float64(indented) / float64(len(lines))
		if ratio > 0.2 && ratio < 0.8 {
			score += 0.2
		}
	}

	if len(lines) > 0 {
		totalLen := 0
		for _, line := range lines {
			totalLen += len(line)
		}
		avg := float64(totalLen) / float64(len(lines))
		if avg > 10 && avg < 120 {
			score += 0.2
		}
	}

	empty := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			empty++
		}
	}
	if empty > 0 && float64(empty) < float64(len(lines))*0.3 {
		score += 0.2
	}

	if len(content) > 100 && len(content) < 10000 {
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// placeholderMarkers are the fake-content smells. Some TODOs are
// realistic, so each distinct marker costs only 0.05, capped at 0.3.
var placeholderMarkers = []string{
	"TODO", "FIXME", "XXX",
	"placeholder", "example.com",
	"foo", "bar", "baz",
	"test123", "password123",
	"replace_this", "change_me",
}

func (r *Realism) authenticityScore(content string) float64 {
	score := 1.0
	lower := strings.ToLower(content)

	found := 0
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			found++
		}
	}
	penalty := float64(found) * 0.05
	if penalty > 0.3 {
		penalty = 0.3
	}
	score -= penalty

	lines := strings.Split(content, "\n")
	if len(lines) > 5 {
		unique := make(map[string]bool, len(lines))
		for _, line := range lines {
			unique[line] = true
		}
		if float64(len(unique))/float64(len(lines)) < 0.5 {
			score -= 0.2
		}
	}

	// A single indent width used everywhere across a long file is a
	// synthetic-content smell; humans are less tidy.
	if len(content) > 200 {
		widths := make(map[int]bool)
		for _, line := range lines {
			if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
				widths[indentWidth(line)] = true
			}
		}
		if len(widths) == 1 && len(lines) > 20 {
			score -= 0.1
		}
	}

	if score < 0.0 {
		score = 0.0
	}
	return score
}
