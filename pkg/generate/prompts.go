package generate

import (
	"fmt"
	"strings"
)

// System prompts per content family. These frame every request so the
// model produces production-looking artifacts rather than samples.
const (
	systemPromptSourceCode = `You are an expert software developer generating realistic source code.
Write production-quality code with proper error handling, documentation, and best practices.
Include realistic variable names, comments, and logic. Code must be syntactically valid.
Mimic the style of experienced developers. Include some technical debt and legacy patterns.`

	systemPromptConfig = `You are a senior DevOps engineer generating realistic configuration files.
Create production-ready configs with appropriate security settings, realistic values, and comments.
Include both good practices and occasional misconfigurations that appear in real systems.`

	systemPromptLogs = `You are a system administrator generating realistic log files.
Create authentic log entries with proper timestamps, IP addresses, and event sequences.
Include normal operations, occasional errors, and realistic access patterns.
Mix successful and failed operations in realistic proportions.`

	systemPromptDocument = `You are a developer creating realistic documentation and notes.
Write authentic developer documentation, notes, and TODO lists.
Include incomplete thoughts, technical jargon, and realistic work-in-progress content.
Mimic how real developers document their work.`
)

func sourceCodePrompt(p SourceCodeParams) string {
	purpose := p.Purpose
	if purpose == "" {
		purpose = "utility script"
	}
	switch p.Language {
	case "javascript":
		return javascriptPrompt(p.ScriptType, purpose)
	case "shell":
		return shellPrompt(p.ScriptType, purpose)
	case "go":
		return goPrompt(p.ScriptType, purpose)
	default:
		return pythonPrompt(p.ScriptType, purpose)
	}
}

func pythonPrompt(scriptType, purpose string) string {
	switch scriptType {
	case "webapp":
		return fmt.Sprintf(`Generate a realistic Python Flask web application for %s.
Include:
- Flask routes with proper error handling
- Database connections (SQLAlchemy)
- Environment variable configuration
- Logging setup
- Authentication middleware
- API endpoints with validation
Make it look like production code with some technical debt.`, purpose)
	case "db_script":
		return fmt.Sprintf(`Generate a realistic Python database script for %s.
Include:
- SQLAlchemy models or raw SQL queries
- Connection pooling and retry logic
- Transaction management
- Error handling and logging
- Configuration from environment variables
- Comments explaining business logic`, purpose)
	default:
		return fmt.Sprintf(`Generate a realistic Python automation script for %s.
Include:
- Command-line argument parsing
- File I/O operations
- Error handling and retry logic
- Progress logging
- Configuration file reading
- Cron-ready with proper exit codes`, purpose)
	}
}

func javascriptPrompt(scriptType, purpose string) string {
	switch scriptType {
	case "frontend":
		return fmt.Sprintf(`Generate a realistic React component for %s.
Include:
- React hooks (useState, useEffect)
- Event handlers and conditional rendering
- API calls with fetch or axios
- Error boundaries and loading states`, purpose)
	case "cli":
		return fmt.Sprintf(`Generate a realistic Node.js CLI tool for %s.
Include:
- Commander.js or Yargs for CLI parsing
- File system operations with async/await
- Colorful console output
- Error handling and configuration file support`, purpose)
	default:
		return fmt.Sprintf(`Generate a realistic Node.js API server for %s.
Include:
- Express.js setup with middleware
- RESTful routes with validation
- Database connections (MongoDB/PostgreSQL)
- JWT authentication
- Error handling middleware
- Environment configuration
Make it look like real production code.`, purpose)
	}
}

func shellPrompt(scriptType, purpose string) string {
	switch scriptType {
	case "deployment":
		return fmt.Sprintf(`Generate a realistic bash deployment script for %s.
Include:
- Git operations and Docker commands
- Service restarts and health checks
- Rollback mechanism
- Logging with timestamps
- Backup before deployment`, purpose)
	case "monitoring":
		return fmt.Sprintf(`Generate a realistic bash monitoring script for %s.
Include:
- System resource checks (CPU, memory, disk)
- Process and service health checks
- Alert generation and notification on thresholds
- Log rotation`, purpose)
	default:
		return fmt.Sprintf(`Generate a realistic bash backup script for %s.
Include:
- Shebang and script metadata
- Parameter validation
- Tar/rsync backup operations
- Error checking after each command
- Cleanup of old backups
- Lock file to prevent concurrent runs`, purpose)
	}
}

func goPrompt(scriptType, purpose string) string {
	switch scriptType {
	case "cli":
		return fmt.Sprintf(`Generate a realistic Go CLI application for %s.
Include:
- Cobra or flag package for CLI
- Subcommands with flags
- Error handling and logging with levels
- Concurrent operations with goroutines
- Exit codes`, purpose)
	case "worker":
		return fmt.Sprintf(`Generate a realistic Go background worker for %s.
Include:
- Worker pool pattern and job queue processing
- Graceful shutdown and context cancellation
- Error handling and retries
- Structured logging`, purpose)
	default:
		return fmt.Sprintf(`Generate a realistic Go HTTP server for %s.
Include:
- net/http server setup with a router
- Middleware (logging, auth, CORS)
- Database connections (database/sql)
- Graceful shutdown
- Health check endpoints
Make it idiomatic Go code.`, purpose)
	}
}

func configPrompt(p ConfigParams) string {
	persona := p.Persona
	if persona == "" {
		persona = "developer"
	}
	switch p.ConfigType {
	case "ssh_config":
		numHosts := p.NumHosts
		if numHosts <= 0 {
			numHosts = 5
		}
		return fmt.Sprintf(`Generate a realistic SSH config file for a %s managing %d servers.
Include:
- Multiple Host entries with realistic names
- ProxyJump/ProxyCommand for bastion hosts
- ForwardAgent and ServerAliveInterval settings
- IdentityFile paths and user mappings
- Comments explaining each host's purpose`, persona, numHosts)
	case "env":
		appType := p.AppType
		if appType == "" {
			appType = "web"
		}
		environment := p.Environment
		if environment == "" {
			environment = "development"
		}
		return fmt.Sprintf(`Generate a realistic .env file for a %s application in %s.
Include:
- Database connection strings
- API keys and secrets (use fake but realistic format)
- Service URLs, feature flags, port configurations
- Third-party service credentials (AWS, Stripe, etc.)
- Mix of commented out and active variables`, appType, environment)
	case "nginx":
		siteType := p.SiteType
		if siteType == "" {
			siteType = "web_app"
		}
		return fmt.Sprintf(`Generate a realistic nginx configuration for %s.
Include:
- Server blocks with realistic domain names
- Upstream configurations and proxy headers
- SSL/TLS settings, rate limiting, caching rules
- Security headers and access/error log paths
- Location blocks with proper routing
Make it production-ready with some common misconfigurations.`, siteType)
	case "docker_compose":
		stack := p.Stack
		if stack == "" {
			stack = "web"
		}
		return fmt.Sprintf(`Generate a realistic docker-compose.yml for a %s application stack.
Include:
- Multiple services (app, database, cache, etc.)
- Environment variables, volume mounts, port mappings
- Networks, health checks, restart policies
- Dependencies between services
- Realistic image versions and comments`, stack)
	default:
		return fmt.Sprintf(`Generate a realistic .bashrc file for a %s.
Include:
- Shell prompt customization (PS1)
- Useful aliases (ls, grep, git shortcuts)
- PATH modifications and history settings
- Environment variables and function definitions
- Tool-specific configurations (nvm, pyenv, etc.)
Make it look like a file evolved over time with accumulated customizations.`, persona)
	}
}

func logPrompt(p LogParams) string {
	switch p.LogType {
	case "syslog":
		return fmt.Sprintf(`Generate realistic syslog entries spanning %d hours.
Include:
- Kernel messages (device events, network)
- Systemd service start/stop/reload
- Cron job executions
- Realistic timestamps, severity levels, and facility tags
Make it look like real system logs.`, p.DurationHours)
	case "bash_history":
		persona := p.Persona
		if persona == "" {
			persona = "developer"
		}
		numCommands := p.NumCommands
		if numCommands <= 0 {
			numCommands = 100
		}
		return fmt.Sprintf(`Generate realistic bash history for a %s (%d commands).
Include:
- Git operations, file operations, package management
- Docker commands, SSH connections, database queries
- System monitoring (ps, top, df, netstat)
- Some typos and corrected commands
- Repeated common commands
Make it look authentic with realistic patterns.`, persona, numCommands)
	case "apache_access", "nginx_access":
		siteType := p.SiteType
		if siteType == "" {
			siteType = "web_app"
		}
		server := "nginx"
		if p.LogType == "apache_access" {
			server = "Apache"
		}
		return fmt.Sprintf(`Generate realistic %s access log for a %s spanning %d hours.
Include:
- GET/POST requests to various endpoints
- Static file requests and API endpoint calls
- Different user agents (browsers, bots, curl)
- Mix of status codes (200, 304, 404, 500)
- Realistic IP addresses and referrer headers
- Some bot traffic and suspicious scanning attempts
Use Combined Log Format.`, server, siteType, p.DurationHours)
	default:
		var attackNote string
		if p.AttackActivity {
			attackNote = `
- Include failed SSH login attempts from suspicious IPs
- Add some brute force patterns
- Include blocked connection attempts`
		}
		return fmt.Sprintf(`Generate realistic auth.log entries spanning %d hours.
Include:
- Successful SSH logins from legitimate IPs
- PAM authentication events
- Sudo command executions
- User session opening/closing
- Cron job executions%s
- Realistic timestamps in syslog format
- Different usernames (admin, deploy, ubuntu, etc.)
- Realistic IP addresses (both internal and external)
Make it look like real server authentication logs.`, p.DurationHours, attackNote)
	}
}

func documentPrompt(p DocParams) string {
	var b strings.Builder
	switch p.DocType {
	case "readme":
		projectType := p.ProjectType
		if projectType == "" {
			projectType = "web_application"
		}
		techStack := p.TechStack
		if techStack == "" {
			techStack = "Python/Flask"
		}
		fmt.Fprintf(&b, `Generate a realistic README.md for a %s using %s.

%s

Include:
- Project title, description, and features list
- Installation and configuration instructions
- Usage examples and API documentation
- Testing and deployment notes
- Some TODOs or known issues
Make it look like real project documentation with some incompleteness.`,
			projectType, techStack, audienceInstruction(p))
	case "todo":
		fmt.Fprintf(&b, `Generate a realistic TODO list for a %s working on %s.

%s

Include:
- Mix of done, in-progress, and pending items
- Technical shorthand and ticket references
- A few stale items that were clearly never finished`,
			personaOr(p.Persona, "developer"), topicOr(p.Topic), audienceInstruction(p))
	case "changelog":
		fmt.Fprintf(&b, `Generate a realistic CHANGELOG.md for %s.

%s

Include:
- Versioned sections with dates
- Added/Changed/Fixed categories
- Realistic incremental changes and bug fix notes`,
			topicOr(p.Topic), audienceInstruction(p))
	default:
		fmt.Fprintf(&b, `Generate realistic developer notes from a %s about %s.

%s

Include:
- Informal shorthand and incomplete thoughts
- Technical details, hostnames, and commands
- Work-in-progress reminders`,
			personaOr(p.Persona, "developer"), topicOr(p.Topic), audienceInstruction(p))
	}
	return b.String()
}

func personaOr(persona, def string) string {
	if persona == "" {
		return def
	}
	return persona
}

func topicOr(topic string) string {
	if topic == "" {
		return "the current project"
	}
	return topic
}

func audienceInstruction(p DocParams) string {
	var inst string
	switch p.Audience {
	case "external":
		inst = "Write as documentation for external stakeholders, auditors, or customers. Be professional and clear."
	case "attacker":
		inst = "Write as authentic developer/admin notes that would appear realistic to an attacker. Include 'hidden' credentials or sensitive info."
	case "developer":
		inst = "Write as informal developer notes with shortcuts, abbreviations, and work-in-progress content."
	default:
		inst = "Write as internal documentation for security/IT team. Use technical jargon freely."
	}
	if p.HideHoneypotConcepts {
		inst += "\nIMPORTANT: Do NOT mention honeypots, deception, fake data, or security traps. Generate content as if it's for a real production system."
	}
	return inst
}
