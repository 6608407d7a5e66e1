package populate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/decoyhive/decoyhive/pkg/consistency"
	"github.com/decoyhive/decoyhive/pkg/generate"
	"github.com/decoyhive/decoyhive/pkg/store"
	"github.com/decoyhive/decoyhive/pkg/token"
	"github.com/decoyhive/decoyhive/pkg/types"
)

// Known population profiles.
const (
	ProfileDeveloperWorkstation = "developer_workstation"
	ProfileProductionServer     = "production_server"
	ProfileDatabaseServer       = "database_server"
	ProfileWebServer            = "web_server"
)

// StrategyConfig wires a Strategy. All fields are required.
type StrategyConfig struct {
	Generator *generate.Generator
	Tokens    *token.Generator
	Store     store.Store
	Deployer  *Deployer
	Logger    *slog.Logger
}

// Strategy assembles a file batch for a profile, issues the profile's
// honeytokens, reconciles identity fields across the batch, and
// deploys it.
//
// Generation is best-effort: a failed file is recorded in the result's
// error list and the rest of the batch proceeds. Honeytokens persist
// to the store before any file touches disk, so a run that fails or
// is cancelled partway never leaves an issued token untracked.
type Strategy struct {
	gen    *generate.Generator
	tokens *token.Generator
	store  store.Store
	deploy *Deployer
	logger *slog.Logger
}

// NewStrategy creates a Strategy from cfg.
func NewStrategy(cfg StrategyConfig) (*Strategy, error) {
	if cfg.Generator == nil || cfg.Tokens == nil || cfg.Store == nil || cfg.Deployer == nil {
		return nil, fmt.Errorf("populate: generator, tokens, store, and deployer are all required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Strategy{
		gen:    cfg.Generator,
		tokens: cfg.Tokens,
		store:  cfg.Store,
		deploy: cfg.Deployer,
		logger: logger,
	}, nil
}

// Populate runs the named profile for a honeypot. Unknown profiles
// fall back to the developer workstation.
func (s *Strategy) Populate(ctx context.Context, honeypotID, profile string) (*Result, error) {
	run := &profileRun{s: s, honeypotID: honeypotID}
	switch profile {
	case ProfileProductionServer:
		run.production(ctx)
	case ProfileDatabaseServer:
		run.database(ctx)
	case ProfileWebServer:
		run.webServer(ctx)
	default:
		run.developer(ctx)
	}

	// The whole batch is assembled before any consistency pass runs.
	cm := consistency.NewManager(s.logger)
	cm.Randomize()
	run.files = cm.Apply(run.files)

	res := s.deploy.Deploy(honeypotID, run.files)
	res.TokensIssued = run.tokensIssued
	res.Errors = append(run.errors, res.Errors...)
	res.Success = len(res.Errors) == 0
	return res, nil
}

// profileRun accumulates one population run's batch and errors.
type profileRun struct {
	s            *Strategy
	honeypotID   string
	files        []types.FileSpec
	errors       []string
	tokensIssued int
}

func (r *profileRun) add(spec types.FileSpec, gc *types.GeneratedContent, err error) {
	if err != nil {
		r.errors = append(r.errors, fmt.Sprintf("generate %s: %v", spec.Path, err))
		return
	}
	spec.Content = gc.Content
	r.files = append(r.files, spec)
}

// issueToken synthesizes and persists a honeytoken destined for
// filePath, returning the value to embed. Persistence happens here,
// ahead of deployment.
func (r *profileRun) issueToken(ctx context.Context, tokenType, filePath string) (string, bool) {
	gc := r.s.tokens.Generate(token.Params{TokenType: tokenType})
	rec, err := r.s.store.CreateToken(ctx, store.CreateTokenParams{
		TokenType:  tokenType,
		TokenValue: gc.Content,
		HoneypotID: r.honeypotID,
		FilePath:   filePath,
		Metadata:   gc.Metadata,
	})
	if err != nil {
		r.errors = append(r.errors, fmt.Sprintf("issue %s token: %v", tokenType, err))
		return "", false
	}
	r.tokensIssued++
	r.s.logger.Info("honeytoken issued",
		"token_id", rec.TokenID, "token_type", tokenType,
		"honeypot_id", r.honeypotID, "file_path", filePath)
	return gc.Content, true
}

// envTokenLine formats an embedded token as an env assignment with the
// marker comment the security validator's exemption rule recognizes.
func envTokenLine(name, value string) string {
	return fmt.Sprintf("%s=%s  # honeytoken\n", name, value)
}

func (r *profileRun) developer(ctx context.Context) {
	gc, err := r.s.gen.SourceCode(ctx, generate.SourceCodeParams{
		Language: "python", ScriptType: "webapp", Purpose: "API development",
		HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "projects/app/src/main.py", Permissions: 0o644}, gc, err)

	gc, err = r.s.gen.SourceCode(ctx, generate.SourceCodeParams{
		Language: "javascript", ScriptType: "api", Purpose: "API development",
		HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "projects/app/src/index.js", Permissions: 0o644}, gc, err)

	gc, err = r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "bashrc", Persona: "developer", HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: ".bashrc", Permissions: 0o644}, gc, err)

	gc, err = r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "ssh_config", Persona: "developer", HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: ".ssh/config", Permissions: 0o600}, gc, err)

	envPath := "projects/app/.env"
	gc, err = r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "env", AppType: "web", HoneypotID: r.honeypotID,
	})
	if err == nil {
		env := gc.Content + "\n"
		if v, ok := r.issueToken(ctx, types.TokenAWSAccessKey, envPath); ok {
			env += envTokenLine("AWS_ACCESS_KEY_ID", v)
		}
		if v, ok := r.issueToken(ctx, types.TokenGitHub, envPath); ok {
			env += envTokenLine("GITHUB_TOKEN", v)
		}
		gc.Content = env
	}
	r.add(types.FileSpec{Path: envPath, Permissions: 0o600}, gc, err)

	gc, err = r.s.gen.Document(ctx, generate.DocParams{
		DocType: "notes", Persona: "developer", Audience: "attacker",
		HideHoneypotConcepts: true, HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "Documents/dev-notes.txt", Permissions: 0o644}, gc, err)

	gc, err = r.s.gen.Document(ctx, generate.DocParams{
		DocType: "readme", ProjectType: "web_api",
		HideHoneypotConcepts: true, HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "projects/app/README.md", Permissions: 0o644}, gc, err)

	gc, err = r.s.gen.SystemLog(ctx, generate.LogParams{
		LogType: "bash_history", Persona: "developer", HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: ".bash_history", Permissions: 0o600}, gc, err)
}

func (r *profileRun) production(ctx context.Context) {
	gc, err := r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "nginx", SiteType: "web_app", HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "etc/nginx/sites-available/app.conf", Permissions: 0o644}, gc, err)

	gc, err = r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "docker_compose", Stack: "web", HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "app/docker-compose.yml", Permissions: 0o644}, gc, err)

	envPath := "app/.env"
	gc, err = r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "env", AppType: "web", Environment: "production",
		HoneypotID: r.honeypotID,
	})
	if err == nil {
		if v, ok := r.issueToken(ctx, types.TokenAPIToken, envPath); ok {
			gc.Content += "\n" + envTokenLine("INTERNAL_API_TOKEN", v)
		}
	}
	r.add(types.FileSpec{Path: envPath, Permissions: 0o600}, gc, err)

	gc, err = r.s.gen.SystemLog(ctx, generate.LogParams{
		LogType: "auth", DurationHours: 48, AttackActivity: true,
		HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "var/log/auth.log", Permissions: 0o640}, gc, err)

	gc, err = r.s.gen.SystemLog(ctx, generate.LogParams{
		LogType: "syslog", DurationHours: 48, HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "var/log/syslog", Permissions: 0o640}, gc, err)

	gc, err = r.s.gen.SystemLog(ctx, generate.LogParams{
		LogType: "nginx_access", DurationHours: 24, SiteType: "web_app",
		HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "var/log/nginx/access.log", Permissions: 0o640}, gc, err)

	gc, err = r.s.gen.SourceCode(ctx, generate.SourceCodeParams{
		Language: "shell", ScriptType: "deployment", Purpose: "application deployment",
		HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "scripts/deploy.sh", Permissions: 0o755}, gc, err)
}

func (r *profileRun) database(ctx context.Context) {
	gc, err := r.s.gen.SourceCode(ctx, generate.SourceCodeParams{
		Language: "python", ScriptType: "db_script", Purpose: "database backup",
		HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "scripts/backup_db.py", Permissions: 0o755}, gc, err)

	envPath := ".env"
	gc, err = r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "env", AppType: "database", HoneypotID: r.honeypotID,
	})
	if err == nil {
		if v, ok := r.issueToken(ctx, types.TokenDBPassword, envPath); ok {
			gc.Content += "\n" + envTokenLine("POSTGRES_PASSWORD", v)
		}
	}
	r.add(types.FileSpec{Path: envPath, Permissions: 0o600}, gc, err)

	gc, err = r.s.gen.SystemLog(ctx, generate.LogParams{
		LogType: "auth", DurationHours: 72, HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "var/log/auth.log", Permissions: 0o640}, gc, err)
}

func (r *profileRun) webServer(ctx context.Context) {
	gc, err := r.s.gen.SourceCode(ctx, generate.SourceCodeParams{
		Language: "python", ScriptType: "webapp", Purpose: "web API",
		HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "app/main.py", Permissions: 0o644}, gc, err)

	gc, err = r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "nginx", SiteType: "api", HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "nginx.conf", Permissions: 0o644}, gc, err)

	envPath := "app/.env"
	gc, err = r.s.gen.ConfigFile(ctx, generate.ConfigParams{
		ConfigType: "env", AppType: "web", HoneypotID: r.honeypotID,
	})
	if err == nil {
		if v, ok := r.issueToken(ctx, types.TokenJWTSecret, envPath); ok {
			gc.Content += "\n" + envTokenLine("JWT_SECRET", v)
		}
	}
	r.add(types.FileSpec{Path: envPath, Permissions: 0o600}, gc, err)

	gc, err = r.s.gen.SystemLog(ctx, generate.LogParams{
		LogType: "apache_access", DurationHours: 24, HoneypotID: r.honeypotID,
	})
	r.add(types.FileSpec{Path: "logs/access.log", Permissions: 0o644}, gc, err)
}
