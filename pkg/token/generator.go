package token

import (
	"github.com/decoyhive/decoyhive/pkg/types"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

// Params selects what to generate.
type Params struct {
	TokenType  string
	FormatHint string
}

// Generator produces honeytoken values and runs them through the
// same validation pipeline as every other generated artifact. Even a
// honeytoken's surface form gets a basic realism/security sanity
// check.
type Generator struct {
	validators *validator.Suite
}

// NewGenerator creates a generator backed by the given suite.
func NewGenerator(validators *validator.Suite) *Generator {
	return &Generator{validators: validators}
}

// Generate builds a token value for p and returns it wrapped with
// validation results. The file type is always "generic": token values
// have no syntax of their own.
func (g *Generator) Generate(p Params) *types.GeneratedContent {
	if p.TokenType == "" {
		p.TokenType = types.TokenAPIToken
	}
	value := Build(p.TokenType, p.FormatHint)

	metadata := map[string]any{
		"token_type":    p.TokenType,
		"is_honeytoken": true,
	}
	if p.FormatHint != "" {
		metadata["format_hint"] = p.FormatHint
	}

	results := g.validators.Run(value, validator.Context{
		FileType: "generic",
		Extra:    metadata,
	})

	return &types.GeneratedContent{
		Content:           value,
		ContentType:       "honeytoken",
		FileType:          "generic",
		Metadata:          metadata,
		ValidationResults: results,
	}
}
