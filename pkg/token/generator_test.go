package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decoyhive/decoyhive/pkg/types"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	suite, err := validator.NewSuite()
	require.NoError(t, err)
	return NewGenerator(suite)
}

func TestGenerate(t *testing.T) {
	gc := newGenerator(t).Generate(Params{TokenType: types.TokenGitHub})

	assert.Regexp(t, `^ghp_[A-Za-z0-9]{36}$`, gc.Content)
	assert.Equal(t, "honeytoken", gc.ContentType)
	assert.Equal(t, "generic", gc.FileType)
	assert.Equal(t, types.TokenGitHub, gc.Metadata["token_type"])
	assert.Equal(t, true, gc.Metadata["is_honeytoken"])
	assert.NotContains(t, gc.Metadata, "format_hint")
	require.Len(t, gc.ValidationResults, 3)
}

func TestGenerateDefaultsToAPIToken(t *testing.T) {
	gc := newGenerator(t).Generate(Params{})
	assert.Equal(t, types.TokenAPIToken, gc.Metadata["token_type"])
	assert.Len(t, gc.Content, 43)
}

func TestGenerateRecordsFormatHint(t *testing.T) {
	gc := newGenerator(t).Generate(Params{TokenType: types.TokenPatientID, FormatHint: "P-NNNNNN"})
	assert.Equal(t, "P-NNNNNN", gc.Metadata["format_hint"])
	assert.Regexp(t, `^P-\d{6}$`, gc.Content)
}

func TestGenerateBareSignatureValueIsFlagged(t *testing.T) {
	// A bare AWS key matches its own catalog signature. The validation
	// report says so; embedding with a marker comment is what makes the
	// value deployable.
	gc := newGenerator(t).Generate(Params{TokenType: types.TokenAWSAccessKey})
	sec := gc.ValidationResults[types.ValidatorSecurity]
	require.NotNil(t, sec)
	assert.False(t, sec.Valid)
	require.NotEmpty(t, sec.Errors)
	assert.Contains(t, sec.Errors[0], "aws_access_key")
}
