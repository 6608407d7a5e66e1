package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxMissingFileTypeFailsClosed(t *testing.T) {
	res := NewSyntax().Validate("anything", Context{})
	assert.False(t, res.Valid)
	assert.Equal(t, 0.0, res.Score)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "file_type not specified in context", res.Errors[0])
}

func TestSyntaxPython(t *testing.T) {
	s := NewSyntax()

	t.Run("valid function", func(t *testing.T) {
		res := s.Validate("def f():\n    return 1\n", Context{FileType: "python"})
		assert.True(t, res.Valid)
		assert.Equal(t, 1.0, res.Score)
		assert.Empty(t, res.Errors)
	})

	t.Run("unclosed paren in def", func(t *testing.T) {
		res := s.Validate("def f(:\n  pass", Context{FileType: "python"})
		assert.False(t, res.Valid)
		assert.Equal(t, 0.0, res.Score)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[len(res.Errors)-1], "line 1")
	})

	t.Run("missing indented block", func(t *testing.T) {
		res := s.Validate("if x:\npass\n", Context{FileType: "python"})
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[0], "expected an indented block after line 1")
	})

	t.Run("missing colon on block header", func(t *testing.T) {
		res := s.Validate("def f()\n    return 1\n", Context{FileType: "python"})
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[0], "expected ':'")
	})

	t.Run("unterminated string", func(t *testing.T) {
		res := s.Validate(`x = "never closed`, Context{FileType: "python"})
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[0], "unterminated string literal")
	})

	t.Run("triple quoted docstring", func(t *testing.T) {
		code := "def f():\n    \"\"\"Multi\n    line docstring.\n    \"\"\"\n    return 1\n"
		res := s.Validate(code, Context{FileType: "python"})
		assert.True(t, res.Valid)
	})

	t.Run("multiline call spans lines", func(t *testing.T) {
		code := "result = do_thing(\n    1,\n    2,\n)\n"
		res := s.Validate(code, Context{FileType: "python"})
		assert.True(t, res.Valid)
	})
}

func TestSyntaxJavaScript(t *testing.T) {
	s := NewSyntax()

	t.Run("valid", func(t *testing.T) {
		res := s.Validate("function f(x) { return x + 1; }\n", Context{FileType: "javascript"})
		assert.True(t, res.Valid)
		assert.Equal(t, 1.0, res.Score)
	})

	t.Run("unbalanced braces score zero", func(t *testing.T) {
		res := s.Validate("function f() { return 1;\n", Context{FileType: "javascript"})
		assert.False(t, res.Valid)
		assert.Equal(t, 0.0, res.Score)
		assert.Contains(t, res.Errors, "unbalanced curly braces")
	})

	t.Run("non-js content warns", func(t *testing.T) {
		res := s.Validate("just some prose", Context{FileType: "javascript"})
		assert.True(t, res.Valid)
		assert.Contains(t, res.Warnings, "content may not be JavaScript")
	})
}

func TestSyntaxShell(t *testing.T) {
	s := NewSyntax()

	t.Run("valid script", func(t *testing.T) {
		script := "#!/bin/bash\nif [ -f /etc/hosts ]; then\n  echo ok\nfi\n"
		res := s.Validate(script, Context{FileType: "shell"})
		assert.True(t, res.Valid)
		assert.Equal(t, 1.0, res.Score)
	})

	t.Run("missing shebang warns only", func(t *testing.T) {
		res := s.Validate("echo hello\n", Context{FileType: "shell"})
		assert.True(t, res.Valid)
		assert.Contains(t, res.Warnings, "missing shebang line")
	})

	t.Run("errors keep half score", func(t *testing.T) {
		res := s.Validate("#!/bin/bash\nif [ -f x ]; then\n  echo ok\n", Context{FileType: "shell"})
		assert.False(t, res.Valid)
		assert.Equal(t, 0.5, res.Score)
		assert.Contains(t, res.Errors, "unbalanced if/fi statements")
	})

	t.Run("unbalanced quotes", func(t *testing.T) {
		res := s.Validate("#!/bin/bash\necho \"oops\n", Context{FileType: "shell"})
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "unbalanced double quotes")
	})
}

func TestSyntaxGo(t *testing.T) {
	s := NewSyntax()

	t.Run("valid", func(t *testing.T) {
		res := s.Validate("package main\n\nfunc main() {}\n", Context{FileType: "go"})
		assert.True(t, res.Valid)
		assert.Equal(t, 1.0, res.Score)
	})

	t.Run("missing package declaration", func(t *testing.T) {
		res := s.Validate("func main() {}\n", Context{FileType: "go"})
		assert.False(t, res.Valid)
		assert.Equal(t, 0.0, res.Score)
		assert.Contains(t, res.Errors, "missing package declaration")
	})
}

func TestSyntaxYAML(t *testing.T) {
	s := NewSyntax()

	t.Run("valid", func(t *testing.T) {
		res := s.Validate("services:\n  web:\n    image: nginx\n", Context{FileType: "yaml"})
		assert.True(t, res.Valid)
	})

	t.Run("invalid reports position", func(t *testing.T) {
		res := s.Validate("key: [unclosed\nother: value\n", Context{FileType: "yaml"})
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "YAML syntax error")
	})

	t.Run("docker_compose uses yaml rules", func(t *testing.T) {
		res := s.Validate("version: '3'\nservices: {}\n", Context{FileType: "docker_compose"})
		assert.True(t, res.Valid)
	})
}

func TestSyntaxJSON(t *testing.T) {
	s := NewSyntax()

	t.Run("valid", func(t *testing.T) {
		res := s.Validate(`{"name": "app", "port": 8080}`, Context{FileType: "json"})
		assert.True(t, res.Valid)
	})

	t.Run("invalid reports line", func(t *testing.T) {
		res := s.Validate("{\n  \"a\": 1,\n  \"b\": ,\n}", Context{FileType: "json"})
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "JSON syntax error at line 3")
	})
}

func TestSyntaxNginx(t *testing.T) {
	s := NewSyntax()

	t.Run("valid server block", func(t *testing.T) {
		conf := "server {\n    listen 80;\n    server_name example.internal;\n}\n"
		res := s.Validate(conf, Context{FileType: "nginx"})
		assert.True(t, res.Valid)
	})

	t.Run("missing semicolon warns only", func(t *testing.T) {
		conf := "server {\n    listen 80\n}\n"
		res := s.Validate(conf, Context{FileType: "nginx"})
		assert.True(t, res.Valid)
		require.NotEmpty(t, res.Warnings)
		assert.Contains(t, res.Warnings[0], "line 2 may be missing semicolon")
	})

	t.Run("unbalanced braces keep half score", func(t *testing.T) {
		res := s.Validate("server {\n    listen 80;\n", Context{FileType: "nginx"})
		assert.False(t, res.Valid)
		assert.Equal(t, 0.5, res.Score)
	})
}

func TestSyntaxGeneric(t *testing.T) {
	s := NewSyntax()

	t.Run("unknown type falls back", func(t *testing.T) {
		res := s.Validate("ordinary text content\nwith lines\n", Context{FileType: "markdown"})
		assert.True(t, res.Valid)
		assert.Equal(t, 0.8, res.Score)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], `no specific syntax validator for file type "markdown"`)
	})

	t.Run("empty content invalid", func(t *testing.T) {
		res := s.Validate("", Context{FileType: "generic"})
		assert.False(t, res.Valid)
	})
}
