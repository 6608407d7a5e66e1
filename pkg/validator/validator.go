// Package validator implements the three-judge content validation
// pipeline: syntax, realism, and security. Validators are terminal:
// they never abort a generation pipeline and never return Go errors
// for content problems. Every outcome is a ValidationResult.
package validator

import (
	"github.com/decoyhive/decoyhive/pkg/types"
)

// Context carries per-call validation inputs. FileType drives the
// syntax dispatch and the realism pattern checklist; callers must
// always set it (the syntax validator fails closed without it).
type Context struct {
	FileType string
	// Extra holds generator-specific context (token_type and the
	// like); validators only read it for diagnostics.
	Extra map[string]any
}

// ContentValidator is one judge of a content string.
type ContentValidator interface {
	Name() string
	Validate(content string, ctx Context) *types.ValidationResult
}

// Suite bundles the three validators and runs them as a unit.
type Suite struct {
	Syntax   *Syntax
	Realism  *Realism
	Security *Security
}

// NewSuite constructs the standard three-validator pipeline.
func NewSuite() (*Suite, error) {
	sec, err := NewSecurity()
	if err != nil {
		return nil, err
	}
	return &Suite{
		Syntax:   NewSyntax(),
		Realism:  NewRealism(),
		Security: sec,
	}, nil
}

// Run validates content with all three validators and returns the
// results keyed by validator name.
func (s *Suite) Run(content string, ctx Context) map[string]*types.ValidationResult {
	return map[string]*types.ValidationResult{
		types.ValidatorSyntax:   s.Syntax.Validate(content, ctx),
		types.ValidatorRealism:  s.Realism.Validate(content, ctx),
		types.ValidatorSecurity: s.Security.Validate(content, ctx),
	}
}
