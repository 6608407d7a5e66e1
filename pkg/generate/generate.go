// Package generate produces decoy file content with an LLM and scores
// every result through the validation pipeline. Content is never
// discarded for failing validation; callers read the report and
// decide.
package generate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/decoyhive/decoyhive/pkg/llm"
	"github.com/decoyhive/decoyhive/pkg/store"
	"github.com/decoyhive/decoyhive/pkg/types"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

// Config wires a Generator. LLM and Validators are required; Store is
// optional and, when present, receives a GenerationLogEntry per call.
type Config struct {
	LLM        llm.Client
	Validators *validator.Suite
	Store      store.Store
	Logger     *slog.Logger
}

// Generator runs the generate-validate-log pipeline for all LLM-backed
// content types.
type Generator struct {
	llm        llm.Client
	validators *validator.Suite
	store      store.Store
	logger     *slog.Logger
}

// New creates a Generator from cfg.
func New(cfg Config) (*Generator, error) {
	if cfg.LLM == nil {
		return nil, fmt.Errorf("generate: LLM client is required")
	}
	if cfg.Validators == nil {
		return nil, fmt.Errorf("generate: validator suite is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		llm:        cfg.LLM,
		validators: cfg.Validators,
		store:      cfg.Store,
		logger:     logger,
	}, nil
}

// SourceCodeParams selects a source file to generate.
type SourceCodeParams struct {
	// Language is python, javascript, shell, or go. Unknown values
	// fall back to python.
	Language   string
	ScriptType string
	Purpose    string
	HoneypotID string
}

// SourceCode generates a source file in the requested language and
// validates it against that language's syntax rules.
func (g *Generator) SourceCode(ctx context.Context, p SourceCodeParams) (*types.GeneratedContent, error) {
	if p.Language == "" {
		p.Language = "python"
	}
	prompt := sourceCodePrompt(p)
	meta := map[string]any{"language": p.Language}
	if p.ScriptType != "" {
		meta["script_type"] = p.ScriptType
	}
	if p.Purpose != "" {
		meta["purpose"] = p.Purpose
	}
	return g.run(ctx, runSpec{
		contentType:  "source_code",
		fileType:     p.Language,
		prompt:       prompt,
		systemPrompt: systemPromptSourceCode,
		honeypotID:   p.HoneypotID,
		metadata:     meta,
	})
}

// ConfigParams selects a configuration file to generate.
type ConfigParams struct {
	// ConfigType is bashrc, ssh_config, env, nginx, or
	// docker_compose. Unknown values fall back to bashrc.
	ConfigType  string
	Persona     string
	AppType     string
	Environment string
	SiteType    string
	Stack       string
	NumHosts    int
	HoneypotID  string
}

// configFileTypes maps config types to the file type their syntax is
// validated as.
var configFileTypes = map[string]string{
	"bashrc":         "shell",
	"ssh_config":     "generic",
	"env":            "generic",
	"nginx":          "nginx",
	"docker_compose": "yaml",
}

// ConfigFile generates a configuration file.
func (g *Generator) ConfigFile(ctx context.Context, p ConfigParams) (*types.GeneratedContent, error) {
	if p.ConfigType == "" {
		p.ConfigType = "bashrc"
	}
	fileType, ok := configFileTypes[p.ConfigType]
	if !ok {
		fileType = "generic"
	}
	return g.run(ctx, runSpec{
		contentType:  "config",
		fileType:     fileType,
		prompt:       configPrompt(p),
		systemPrompt: systemPromptConfig,
		temperature:  0.8,
		honeypotID:   p.HoneypotID,
		metadata:     map[string]any{"config_type": p.ConfigType},
	})
}

// LogParams selects a system log to generate.
type LogParams struct {
	// LogType is auth, syslog, bash_history, apache_access,
	// nginx_access, or application. Unknown values fall back to auth.
	LogType        string
	DurationHours  int
	AttackActivity bool
	Persona        string
	NumCommands    int
	SiteType       string
	HoneypotID     string
}

// SystemLog generates log file content. Logs have no syntax of their
// own and validate as generic.
func (g *Generator) SystemLog(ctx context.Context, p LogParams) (*types.GeneratedContent, error) {
	if p.LogType == "" {
		p.LogType = "auth"
	}
	if p.DurationHours <= 0 {
		p.DurationHours = 24
	}
	return g.run(ctx, runSpec{
		contentType:  "logs",
		fileType:     "generic",
		prompt:       logPrompt(p),
		systemPrompt: systemPromptLogs,
		temperature:  0.9,
		honeypotID:   p.HoneypotID,
		metadata: map[string]any{
			"log_type":       p.LogType,
			"duration_hours": p.DurationHours,
		},
	})
}

// DocParams selects a user document to generate.
type DocParams struct {
	// DocType is notes, readme, todo, or changelog. Unknown values
	// fall back to notes.
	DocType     string
	Persona     string
	Topic       string
	ProjectType string
	TechStack   string
	// Audience is internal, external, attacker, or developer.
	Audience string
	// HideHoneypotConcepts strips any mention of deception from the
	// prompt so the output reads as real production material.
	HideHoneypotConcepts bool
	HoneypotID           string
}

// Document generates developer documentation or notes.
func (g *Generator) Document(ctx context.Context, p DocParams) (*types.GeneratedContent, error) {
	if p.DocType == "" {
		p.DocType = "notes"
	}
	if p.Audience == "" {
		p.Audience = "internal"
	}
	return g.run(ctx, runSpec{
		contentType:  "document",
		fileType:     "generic",
		prompt:       documentPrompt(p),
		systemPrompt: systemPromptDocument,
		temperature:  0.8,
		honeypotID:   p.HoneypotID,
		metadata: map[string]any{
			"doc_type": p.DocType,
			"audience": p.Audience,
		},
	})
}

type runSpec struct {
	contentType  string
	fileType     string
	prompt       string
	systemPrompt string
	temperature  float64
	honeypotID   string
	metadata     map[string]any
}

func (g *Generator) run(ctx context.Context, spec runSpec) (*types.GeneratedContent, error) {
	start := time.Now()
	text, err := g.llm.Generate(ctx, llm.Request{
		Prompt:       spec.prompt,
		SystemPrompt: spec.systemPrompt,
		Temperature:  spec.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", spec.contentType, err)
	}

	results := g.validators.Run(text, validator.Context{
		FileType: spec.fileType,
		Extra:    spec.metadata,
	})
	gc := &types.GeneratedContent{
		Content:           text,
		ContentType:       spec.contentType,
		FileType:          spec.fileType,
		Metadata:          spec.metadata,
		ValidationResults: results,
	}

	g.logger.Info("content generated",
		"content_type", spec.contentType,
		"file_type", spec.fileType,
		"length", len(text),
		"valid", gc.IsValid(),
		"score", gc.OverallScore())

	g.logGeneration(ctx, spec, gc, time.Since(start))
	return gc, nil
}

// logGeneration records the audit entry. Audit failures never fail
// the generation itself.
func (g *Generator) logGeneration(ctx context.Context, spec runSpec, gc *types.GeneratedContent, elapsed time.Duration) {
	if g.store == nil {
		return
	}
	err := g.store.AddGenerationLog(ctx, &types.GenerationLogEntry{
		ContentType:      spec.contentType,
		FileType:         spec.fileType,
		HoneypotID:       spec.honeypotID,
		PromptHash:       hashPrompt(spec.prompt),
		ValidationScore:  gc.OverallScore(),
		IsValid:          gc.IsValid(),
		GenerationTimeMS: elapsed.Milliseconds(),
		EntryMetadata:    spec.metadata,
	})
	if err != nil {
		g.logger.Warn("generation log write failed", "error", err)
	}
}

func hashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:16])
}
