// Package store is the single source of truth for "is this value a
// token we issued". It persists honeytoken records and generation
// audit logs behind a backend-agnostic interface, with SQLite,
// PostgreSQL, and in-memory implementations.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/decoyhive/decoyhive/pkg/types"
)

// CreateTokenParams carries the caller-supplied fields of a new
// honeytoken record. The store assigns the id and timestamps.
type CreateTokenParams struct {
	TokenType  string
	TokenValue string
	HoneypotID string
	FilePath   string
	Metadata   map[string]any
}

// ListFilter narrows ListTokens. Filters are conjunctive. The zero
// value lists active tokens only, matching the contract's default;
// set IncludeInactive to also see deactivated records. Limit <= 0
// means the default of 100.
type ListFilter struct {
	HoneypotID      string
	TokenType       string
	IncludeInactive bool
	Limit           int
}

const defaultListLimit = 100

// Store provides honeytoken and generation-log persistence.
//
// Every operation that touches persistence wraps backend failures in
// *Error; the underlying driver's error types never reach callers.
// Lookup misses are reported via ErrNotFound.
type Store interface {
	// CreateToken assigns a fresh id, persists the record with
	// access_count=0 and is_active=true, and returns it.
	CreateToken(ctx context.Context, p CreateTokenParams) (*types.Honeytoken, error)

	// GetToken looks a record up by its id, active or not.
	GetToken(ctx context.Context, tokenID string) (*types.Honeytoken, error)

	// CheckToken is the detection primitive: an exact string match
	// against active tokens. On a hit it atomically records the
	// access (accessed_at=now, access_count+1) and returns the
	// updated record, so the caller sees the count including this
	// access. A miss returns ErrNotFound with no side effect.
	CheckToken(ctx context.Context, value string) (*types.Honeytoken, error)

	// ListTokens returns matching records, most recent first.
	ListTokens(ctx context.Context, f ListFilter) ([]*types.Honeytoken, error)

	// DeactivateToken clears is_active. The boolean reports whether
	// the id was found, not whether the state changed: deactivating
	// an already-inactive token returns true again. There is no
	// reactivate operation.
	DeactivateToken(ctx context.Context, tokenID string) (bool, error)

	// AddGenerationLog records one generation call for metrics. The
	// entry's GenerationID and CreatedAt are assigned here if unset.
	AddGenerationLog(ctx context.Context, e *types.GenerationLogEntry) error

	// ListGenerationLogs returns audit entries, most recent first,
	// optionally filtered by honeypot id.
	ListGenerationLogs(ctx context.Context, honeypotID string, limit int) ([]*types.GenerationLogEntry, error)

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string
	// DSN is the database path or connection string. ":memory:"
	// selects the in-memory store.
	DSN string
	// Logger receives store events; nil means slog.Default().
	Logger *slog.Logger
}

// New creates a Store for cfg.
func New(cfg Config) (Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store: DSN is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.DSN == ":memory:" {
		return NewMemory(logger), nil
	}

	switch cfg.Driver {
	case "", "sqlite":
		return openSQL(dialectSQLite, "sqlite", cfg.DSN, logger)
	case "postgres", "pgx":
		return openSQL(dialectPostgres, "pgx", cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
