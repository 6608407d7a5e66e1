package generate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decoyhive/decoyhive/pkg/llm"
	"github.com/decoyhive/decoyhive/pkg/store"
	"github.com/decoyhive/decoyhive/pkg/types"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

// fakeLLM returns canned output and records the last request.
type fakeLLM struct {
	output  string
	err     error
	lastReq llm.Request
	calls   int
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func (f *fakeLLM) Close() error { return nil }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGenerator(t *testing.T, client llm.Client, st store.Store) *Generator {
	t.Helper()
	suite, err := validator.NewSuite()
	require.NoError(t, err)
	g, err := New(Config{LLM: client, Validators: suite, Store: st, Logger: discard()})
	require.NoError(t, err)
	return g
}

func TestNewRequiresDependencies(t *testing.T) {
	suite, err := validator.NewSuite()
	require.NoError(t, err)

	_, err = New(Config{Validators: suite})
	assert.ErrorContains(t, err, "LLM client is required")

	_, err = New(Config{LLM: &fakeLLM{}})
	assert.ErrorContains(t, err, "validator suite is required")
}

func TestSourceCode(t *testing.T) {
	fake := &fakeLLM{output: "def handler():\n    return 200\n"}
	g := newTestGenerator(t, fake, nil)

	gc, err := g.SourceCode(context.Background(), SourceCodeParams{
		Language:   "python",
		ScriptType: "webapp",
		Purpose:    "API development",
	})
	require.NoError(t, err)

	assert.Equal(t, "source_code", gc.ContentType)
	assert.Equal(t, "python", gc.FileType)
	assert.Equal(t, fake.output, gc.Content)
	assert.Equal(t, "python", gc.Metadata["language"])
	assert.Equal(t, "webapp", gc.Metadata["script_type"])
	require.Len(t, gc.ValidationResults, 3)
	assert.True(t, gc.ValidationResults[types.ValidatorSyntax].Valid)

	assert.Contains(t, fake.lastReq.Prompt, "Flask")
	assert.Contains(t, fake.lastReq.Prompt, "API development")
	assert.Equal(t, systemPromptSourceCode, fake.lastReq.SystemPrompt)
}

func TestSourceCodeDefaultsToPython(t *testing.T) {
	fake := &fakeLLM{output: "print('hi')\n"}
	g := newTestGenerator(t, fake, nil)

	gc, err := g.SourceCode(context.Background(), SourceCodeParams{})
	require.NoError(t, err)
	assert.Equal(t, "python", gc.FileType)
}

func TestConfigFileTypeDispatch(t *testing.T) {
	tests := []struct {
		configType string
		fileType   string
	}{
		{"bashrc", "shell"},
		{"ssh_config", "generic"},
		{"env", "generic"},
		{"nginx", "nginx"},
		{"docker_compose", "yaml"},
		{"", "shell"}, // empty falls back to bashrc
		{"unknown_kind", "generic"},
	}
	for _, tt := range tests {
		t.Run("config "+tt.configType, func(t *testing.T) {
			fake := &fakeLLM{output: "# config\nvalue: 1\n"}
			g := newTestGenerator(t, fake, nil)
			gc, err := g.ConfigFile(context.Background(), ConfigParams{ConfigType: tt.configType})
			require.NoError(t, err)
			assert.Equal(t, "config", gc.ContentType)
			assert.Equal(t, tt.fileType, gc.FileType)
			assert.Equal(t, systemPromptConfig, fake.lastReq.SystemPrompt)
		})
	}
}

func TestSystemLogDefaults(t *testing.T) {
	fake := &fakeLLM{output: "Jan 12 03:14:11 host sshd[812]: Accepted publickey\n"}
	g := newTestGenerator(t, fake, nil)

	gc, err := g.SystemLog(context.Background(), LogParams{})
	require.NoError(t, err)
	assert.Equal(t, "logs", gc.ContentType)
	assert.Equal(t, "generic", gc.FileType)
	assert.Equal(t, "auth", gc.Metadata["log_type"])
	assert.Equal(t, 24, gc.Metadata["duration_hours"])
}

func TestDocumentDefaults(t *testing.T) {
	fake := &fakeLLM{output: "# Notes\n- check staging deploy\n"}
	g := newTestGenerator(t, fake, nil)

	gc, err := g.Document(context.Background(), DocParams{})
	require.NoError(t, err)
	assert.Equal(t, "document", gc.ContentType)
	assert.Equal(t, "notes", gc.Metadata["doc_type"])
	assert.Equal(t, "internal", gc.Metadata["audience"])
}

func TestGenerateErrorPropagates(t *testing.T) {
	fake := &fakeLLM{err: errors.New("backend down")}
	g := newTestGenerator(t, fake, nil)

	_, err := g.SourceCode(context.Background(), SourceCodeParams{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "generate source_code")
	assert.ErrorContains(t, err, "backend down")
}

func TestGenerationIsLogged(t *testing.T) {
	st := store.NewMemory(discard())
	fake := &fakeLLM{output: "def f():\n    return 1\n"}
	g := newTestGenerator(t, fake, st)

	ctx := context.Background()
	_, err := g.SourceCode(ctx, SourceCodeParams{Language: "python", HoneypotID: "hp-1"})
	require.NoError(t, err)

	logs, err := st.ListGenerationLogs(ctx, "hp-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "source_code", entry.ContentType)
	assert.Equal(t, "python", entry.FileType)
	assert.Equal(t, "hp-1", entry.HoneypotID)
	assert.Len(t, entry.PromptHash, 32)
	assert.Greater(t, entry.ValidationScore, 0.0)
	assert.GreaterOrEqual(t, entry.GenerationTimeMS, int64(0))
}

func TestValidationFailureIsNotAnError(t *testing.T) {
	fake := &fakeLLM{output: "def broken(:\n  pass"}
	g := newTestGenerator(t, fake, nil)

	gc, err := g.SourceCode(context.Background(), SourceCodeParams{Language: "python"})
	require.NoError(t, err)
	assert.False(t, gc.IsValid())
	assert.NotEmpty(t, gc.ValidationResults[types.ValidatorSyntax].Errors)
}
