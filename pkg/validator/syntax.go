package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/decoyhive/decoyhive/pkg/types"
)

// Syntax performs a best-effort structural-correctness check,
// dispatched by the declared file type. Checks are shallow heuristics
// for most types; python, yaml and json get real parsing.
type Syntax struct{}

// NewSyntax creates the syntax validator.
func NewSyntax() *Syntax {
	return &Syntax{}
}

// Name returns the validator name.
func (s *Syntax) Name() string { return types.ValidatorSyntax }

var goPackageRe = regexp.MustCompile(`(?m)^package\s+\w+`)

// Validate checks content against the rules for ctx.FileType. A
// missing file type fails closed; an unknown one falls back to the
// generic check. Panics in any per-type check are converted to a
// failed result so the validator never propagates past this boundary.
func (s *Syntax) Validate(content string, ctx Context) (result *types.ValidationResult) {
	if ctx.FileType == "" {
		return &types.ValidationResult{
			Valid:  false,
			Score:  0.0,
			Errors: []string{"file_type not specified in context"},
		}
	}

	defer func() {
		if r := recover(); r != nil {
			result = &types.ValidationResult{
				Valid:  false,
				Score:  0.0,
				Errors: []string{fmt.Sprintf("syntax validation panic: %v", r)},
			}
		}
	}()

	switch ctx.FileType {
	case "python":
		return s.validatePython(content)
	case "javascript":
		return s.validateJavaScript(content)
	case "shell":
		return s.validateShell(content)
	case "go":
		return s.validateGo(content)
	case "yaml", "docker_compose":
		return s.validateYAML(content)
	case "json":
		return s.validateJSON(content)
	case "nginx":
		return s.validateNginx(content)
	default:
		return s.validateGeneric(content, ctx.FileType)
	}
}

func (s *Syntax) validatePython(content string) *types.ValidationResult {
	errs := checkPythonSyntax(content)
	if len(errs) > 0 {
		return &types.ValidationResult{Valid: false, Score: 0.0, Errors: errs}
	}
	return &types.ValidationResult{Valid: true, Score: 1.0}
}

func (s *Syntax) validateJavaScript(content string) *types.ValidationResult {
	var errs, warns []string

	if strings.Count(content, "{") != strings.Count(content, "}") {
		errs = append(errs, "unbalanced curly braces")
	}
	if strings.Count(content, "(") != strings.Count(content, ")") {
		errs = append(errs, "unbalanced parentheses")
	}
	if strings.Count(content, "[") != strings.Count(content, "]") {
		errs = append(errs, "unbalanced brackets")
	}
	if !strings.Contains(content, "function") && !strings.Contains(content, "const") &&
		!strings.Contains(content, "let") && !strings.Contains(content, "var") {
		warns = append(warns, "content may not be JavaScript")
	}

	score := 1.0
	if len(errs) > 0 {
		score = 0.0
	}
	return &types.ValidationResult{Valid: len(errs) == 0, Score: score, Errors: errs, Warnings: warns}
}

var (
	shellIfRe = regexp.MustCompile(`\bif\b`)
	shellFiRe = regexp.MustCompile(`\bfi\b`)
)

func (s *Syntax) validateShell(content string) *types.ValidationResult {
	var errs, warns []string

	if !strings.HasPrefix(content, "#!") {
		warns = append(warns, "missing shebang line")
	}
	if (strings.Count(content, "'")-strings.Count(content, `\'`))%2 != 0 {
		errs = append(errs, "unbalanced single quotes")
	}
	if (strings.Count(content, `"`)-strings.Count(content, `\"`))%2 != 0 {
		errs = append(errs, "unbalanced double quotes")
	}
	if len(shellIfRe.FindAllString(content, -1)) != len(shellFiRe.FindAllString(content, -1)) {
		errs = append(errs, "unbalanced if/fi statements")
	}

	// Errors are a softer penalty for shell than for javascript/go:
	// the heuristics trip on valid-but-unusual scripts too often to
	// justify a zero.
	score := 1.0
	if len(errs) > 0 {
		score = 0.5
	}
	return &types.ValidationResult{Valid: len(errs) == 0, Score: score, Errors: errs, Warnings: warns}
}

func (s *Syntax) validateGo(content string) *types.ValidationResult {
	var errs, warns []string

	if !goPackageRe.MatchString(content) {
		errs = append(errs, "missing package declaration")
	}
	if strings.Count(content, "{") != strings.Count(content, "}") {
		errs = append(errs, "unbalanced curly braces")
	}
	if !strings.Contains(content, "func") {
		warns = append(warns, "no functions defined")
	}

	score := 1.0
	if len(errs) > 0 {
		score = 0.0
	}
	return &types.ValidationResult{Valid: len(errs) == 0, Score: score, Errors: errs, Warnings: warns}
}

func (s *Syntax) validateYAML(content string) *types.ValidationResult {
	var parsed any
	if err := yaml.Unmarshal([]byte(content), &parsed); err != nil {
		// yaml.v3 error strings carry "line N:" position info.
		return &types.ValidationResult{
			Valid:  false,
			Score:  0.0,
			Errors: []string{fmt.Sprintf("YAML syntax error: %v", err)},
		}
	}
	return &types.ValidationResult{Valid: true, Score: 1.0}
}

func (s *Syntax) validateJSON(content string) *types.ValidationResult {
	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		msg := fmt.Sprintf("JSON syntax error: %v", err)
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line := 1 + bytes.Count([]byte(content)[:min(int(syntaxErr.Offset), len(content))], []byte("\n"))
			msg = fmt.Sprintf("JSON syntax error at line %d: %v", line, syntaxErr)
		}
		return &types.ValidationResult{Valid: false, Score: 0.0, Errors: []string{msg}}
	}
	return &types.ValidationResult{Valid: true, Score: 1.0}
}

func (s *Syntax) validateNginx(content string) *types.ValidationResult {
	var errs, warns []string

	if strings.Count(content, "{") != strings.Count(content, "}") {
		errs = append(errs, "unbalanced curly braces")
	}
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasSuffix(line, "{") && !strings.HasSuffix(line, "}") && !strings.HasSuffix(line, ";") {
			warns = append(warns, fmt.Sprintf("line %d may be missing semicolon", i+1))
		}
	}
	if !strings.Contains(content, "server") && !strings.Contains(content, "http") {
		warns = append(warns, "no server or http block found")
	}

	score := 1.0
	if len(errs) > 0 {
		score = 0.5
	}
	return &types.ValidationResult{Valid: len(errs) == 0, Score: score, Errors: errs, Warnings: warns}
}

func (s *Syntax) validateGeneric(content, fileType string) *types.ValidationResult {
	printable := true
	for _, r := range content {
		if !unicode.IsPrint(r) {
			printable = false
			break
		}
	}
	valid := len(content) > 0 && (printable || strings.Contains(content, "\n"))

	return &types.ValidationResult{
		Valid:    valid,
		Score:    0.8,
		Warnings: []string{fmt.Sprintf("no specific syntax validator for file type %q", fileType)},
	}
}
