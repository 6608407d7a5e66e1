package types

// ValidationResult is the outcome of a single validator run.
//
// Valid is the validator's own pass/fail verdict. Score is a
// continuous quality signal in [0.0, 1.0] that stays meaningful for
// ranking even when Valid is false. Errors are hard failures;
// Warnings are soft signals that never flip Valid.
type ValidationResult struct {
	Valid    bool           `json:"valid"`
	Score    float64        `json:"score"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validator names used as keys in GeneratedContent.ValidationResults.
const (
	ValidatorSyntax   = "syntax"
	ValidatorRealism  = "realism"
	ValidatorSecurity = "security"
)
