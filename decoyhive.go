// Package decoyhive provides decoy content validation and honeytoken
// tracking for honeypot environments.
//
// DecoyHive scores generated content for syntactic validity, realism,
// and accidental real-secret leakage, synthesizes honeytoken values in
// exact credential formats, and tracks issued tokens so their later
// use can be detected.
//
// # Basic Usage
//
// Create the validation suite and score content:
//
//	suite, err := decoyhive.NewSuite()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results := suite.Run(content, decoyhive.ValidationContext{FileType: "python"})
//	for name, r := range results {
//	    fmt.Printf("%s: valid=%t score=%.2f\n", name, r.Valid, r.Score)
//	}
//
// # Honeytokens
//
// Generate a token value and persist it for detection:
//
//	st, err := decoyhive.OpenStore("decoyhive.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
//	gc := decoyhive.GenerateToken(suite, "aws_access_key", "")
//	rec, err := st.CreateToken(ctx, store.CreateTokenParams{
//	    TokenType:  "aws_access_key",
//	    TokenValue: gc.Content,
//	})
//
// Later, an exact-match lookup detects any access:
//
//	hit, err := st.CheckToken(ctx, exfiltratedValue)
//	if err == nil {
//	    fmt.Printf("honeytoken %s accessed %d times\n", hit.TokenID, hit.AccessCount)
//	}
package decoyhive

import (
	"github.com/decoyhive/decoyhive/pkg/store"
	"github.com/decoyhive/decoyhive/pkg/token"
	"github.com/decoyhive/decoyhive/pkg/types"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/decoyhive/decoyhive" without subpackages.
type (
	// ValidationResult is the outcome of one validator run.
	ValidationResult = types.ValidationResult

	// GeneratedContent bundles generated text with its validation
	// report.
	GeneratedContent = types.GeneratedContent

	// Honeytoken is an issued decoy secret tracked for detection.
	Honeytoken = types.Honeytoken

	// ValidationContext carries per-call validation inputs.
	ValidationContext = validator.Context

	// Suite runs the syntax, realism, and security validators as a
	// unit.
	Suite = validator.Suite

	// Store persists honeytokens and generation audit logs.
	Store = store.Store
)

// Re-export the validator result-map keys.
const (
	ValidatorSyntax   = types.ValidatorSyntax
	ValidatorRealism  = types.ValidatorRealism
	ValidatorSecurity = types.ValidatorSecurity
)

// NewSuite constructs the standard three-validator pipeline with the
// builtin secret catalog.
func NewSuite() (*Suite, error) {
	return validator.NewSuite()
}

// GenerateToken synthesizes a honeytoken value for tokenType and runs
// it through the validation pipeline. The value is not persisted;
// record it with a Store to make it detectable.
func GenerateToken(suite *Suite, tokenType, formatHint string) *GeneratedContent {
	return token.NewGenerator(suite).Generate(token.Params{
		TokenType:  tokenType,
		FormatHint: formatHint,
	})
}

// OpenStore opens the default SQLite-backed store at path. Pass
// ":memory:" for an ephemeral in-memory store.
func OpenStore(path string) (Store, error) {
	return store.New(store.Config{DSN: path})
}

// MaskSecrets replaces every catalog secret match in content with
// asterisks of the same length. Idempotent; safe for logging and
// display.
func MaskSecrets(content string) (string, error) {
	sec, err := validator.NewSecurity()
	if err != nil {
		return "", err
	}
	return sec.Mask(content), nil
}
