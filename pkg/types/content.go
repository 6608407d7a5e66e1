package types

// GeneratedContent bundles one generation result with the outputs of
// every validator that judged it. Constructed once by a generator and
// immutable afterwards.
type GeneratedContent struct {
	Content           string                       `json:"content"`
	ContentType       string                       `json:"content_type"`
	FileType          string                       `json:"file_type"`
	Metadata          map[string]any               `json:"metadata,omitempty"`
	ValidationResults map[string]*ValidationResult `json:"validation_results,omitempty"`
}

// IsValid reports whether every validator passed. Content with no
// validation results is valid by this definition (there is nothing
// that failed), but see OverallScore for why it still ranks at zero.
func (g *GeneratedContent) IsValid() bool {
	for _, r := range g.ValidationResults {
		if !r.Valid {
			return false
		}
	}
	return true
}

// OverallScore is the arithmetic mean of all validator scores.
// Returns 0.0 when no validators ran: absence of validation is never
// silently treated as passing quality.
func (g *GeneratedContent) OverallScore() float64 {
	if len(g.ValidationResults) == 0 {
		return 0.0
	}
	var sum float64
	for _, r := range g.ValidationResults {
		sum += r.Score
	}
	return sum / float64(len(g.ValidationResults))
}
